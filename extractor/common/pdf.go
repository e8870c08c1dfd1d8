package common

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dslipak/pdf"
)

// MinExtractedChars is the minimum amount of text the native extraction
// must yield before it is trusted; under this the file is treated as a
// scanned document and the OCR fallback runs instead.
const MinExtractedChars = 50

// ExtractRowsFromReader reads a PDF and returns one string per visual row,
// preserving column adjacency within each row. Column alignment is
// load-bearing for the dialect extractors, so reflowed extraction is never
// used here.
func ExtractRowsFromReader(reader io.Reader) ([]string, error) {
	var rAt io.ReaderAt
	var size int64

	switch v := reader.(type) {
	case io.ReaderAt:
		rAt = v
		seeker, ok := reader.(io.Seeker)
		if !ok {
			return nil, errors.New("reader is io.ReaderAt but not io.Seeker, cannot determine size")
		}
		cur, _ := seeker.Seek(0, io.SeekCurrent)
		end, _ := seeker.Seek(0, io.SeekEnd)
		if _, err := seeker.Seek(cur, io.SeekStart); err != nil {
			return nil, err
		}
		size = end
	default:
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(reader); err != nil {
			return nil, err
		}
		b := buf.Bytes()
		rAt = bytes.NewReader(b)
		size = int64(len(b))
	}

	r, err := pdf.NewReader(rAt, size)
	if err != nil {
		return nil, err
	}

	numPages := r.NumPage()
	rows := make([]string, 0, numPages*64)

	for no := 1; no <= numPages; no++ {
		page := r.Page(no)
		pageRows, err := page.GetTextByRow()
		if err != nil {
			log.Printf("WARN page %d text extraction failed: %v", no, err)
			continue
		}
		for _, row := range pageRows {
			var b strings.Builder
			for i, text := range row.Content {
				b.WriteString(text.S)
				if i < len(row.Content)-1 {
					b.WriteByte(' ')
				}
			}
			if b.Len() > 0 {
				rows = append(rows, b.String())
			}
		}
	}

	return rows, nil
}

// ExtractRows extracts row-preserving text from a PDF file. When the
// native text layer yields fewer than MinExtractedChars characters and OCR
// is enabled, the OCR fallback is tried. Total failure returns nil rows
// rather than an error so callers can treat the file as "nothing parsed".
func ExtractRows(path string, ocrEnabled bool) []string {
	rows := nativeRows(path)
	if len(strings.TrimSpace(strings.Join(rows, ""))) >= MinExtractedChars {
		return rows
	}
	if !ocrEnabled {
		return rows
	}
	text := ExtractTextOCR(path)
	if strings.TrimSpace(text) == "" {
		return rows
	}
	log.Printf("used OCR fallback for %s", path)
	return strings.Split(text, "\n")
}

// ExtractText returns the extracted text as one newline-joined string.
// Never fails; total extraction failure yields "".
func ExtractText(path string, ocrEnabled bool) string {
	return strings.Join(ExtractRows(path, ocrEnabled), "\n")
}

func nativeRows(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()
	rows, err := ExtractRowsFromReader(file)
	if err != nil {
		log.Printf("WARN pdf extraction failed for %s: %v", path, err)
		return nil
	}
	return rows
}
