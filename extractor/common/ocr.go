package common

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// OCR fallback for scanned statements: rasterize pages with pdftoppm, then
// run tesseract over each page image. Both tools are optional external
// programs; when either is missing the fallback quietly yields no text.

// ExtractTextOCR renders each page of the PDF to an image and OCRs it.
// Returns "" when the tools are unavailable or produce nothing.
func ExtractTextOCR(path string) string {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return ""
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return ""
	}

	dir, err := os.MkdirTemp("", "bankfeed-ocr-")
	if err != nil {
		return ""
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	if out, err := exec.Command("pdftoppm", "-png", "-r", "150", path, prefix).CombinedOutput(); err != nil {
		log.Printf("WARN pdftoppm failed for %s: %v (%s)", path, err, strings.TrimSpace(string(out)))
		return ""
	}

	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(images) == 0 {
		return ""
	}
	sort.Strings(images)

	var texts []string
	for _, img := range images {
		out, err := exec.Command("tesseract", img, "stdout").Output()
		if err != nil {
			log.Printf("WARN tesseract failed for %s: %v", img, err)
			continue
		}
		if t := strings.TrimSpace(string(out)); t != "" {
			texts = append(texts, t)
		}
	}

	return strings.Join(texts, "\n")
}
