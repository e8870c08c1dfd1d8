// Package api exposes statement parsing over HTTP. It can be started from
// the CLI or mounted programmatically through Handler.
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bankfeed/bankfeed/ai"
	"github.com/bankfeed/bankfeed/extractor"
	"github.com/bankfeed/bankfeed/extractor/common"
	"github.com/bankfeed/bankfeed/pipeline"
)

// Config holds the API server configuration.
type Config struct {
	Port      string
	LogPrefix string
	Parse     common.Config
	Generator ai.Generator
}

// DefaultConfig returns the default API configuration.
func DefaultConfig() Config {
	return Config{
		Port:      ":8080",
		LogPrefix: "API: ",
		Parse:     common.DefaultConfig(),
	}
}

// Server is the HTTP API server.
type Server struct {
	config Config
	mux    *http.ServeMux
}

// New creates a server with the given configuration.
func New(cfg Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/parse", s.handleParse)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Handler returns the http.Handler, for custom http.Server setups.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	log.Printf("%sStarting server on %s", s.config.LogPrefix, s.config.Port)
	return http.ListenAndServe(s.config.Port, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// parseResponse is the normalized payload for one uploaded statement.
type parseResponse struct {
	Filename     string                 `json:"filename"`
	Format       string                 `json:"format"`
	Transactions []pipeline.Transaction `json:"transactions"`
}

// handleParse accepts a multipart upload (field "file") and returns
// normalized transactions. The "format" form value forces csv or pdf;
// otherwise the filename extension decides. "text_only=true" returns the
// extracted PDF text without parsing.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	log.Printf("%sReceived request from %s", s.config.LogPrefix, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Printf("%sError parsing multipart form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		log.Printf("%sError getting file from form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not get uploaded file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("%sError reading file bytes: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not read file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	format := statementFormat(r, handler.Filename)
	textOnly := r.FormValue("text_only") == "true" || r.URL.Query().Get("text_only") == "true"

	if textOnly && format == "pdf" {
		s.handleTextOnly(w, data, handler.Filename)
		return
	}

	var cands []common.Candidate
	switch format {
	case "csv":
		cands = extractor.ParseCSVData(data, handler.Filename)
	default:
		text, err := pdfTextFromBytes(data, s.config.Parse.OCREnabled)
		if err != nil {
			log.Printf("%sError extracting text: %v", s.config.LogPrefix, err)
			http.Error(w, "Could not extract text from file: "+err.Error(), http.StatusBadRequest)
			return
		}
		cands = extractor.ParseText(r.Context(), text, s.config.Parse, s.config.Generator)
	}

	txs := pipeline.Normalize(cands, s.config.Parse)
	for i := range txs {
		txs[i].Origination = handler.Filename
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(parseResponse{
		Filename:     handler.Filename,
		Format:       format,
		Transactions: txs,
	})
}

func (s *Server) handleTextOnly(w http.ResponseWriter, data []byte, filename string) {
	rows, err := common.ExtractRowsFromReader(bytes.NewReader(data))
	if err != nil || len(rows) == 0 {
		log.Printf("%sError extracting text: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not extract text from file", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"filename": filename,
		"text":     strings.Join(rows, "\n"),
	})
}

func statementFormat(r *http.Request, filename string) string {
	if f := strings.ToLower(coalesce(r.FormValue("format"), r.URL.Query().Get("format"))); f == "csv" || f == "pdf" {
		return f
	}
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return "csv"
	}
	return "pdf"
}

// pdfTextFromBytes extracts row text from an in-memory PDF, falling back
// to OCR through a temp file when native extraction comes up short.
func pdfTextFromBytes(data []byte, ocrEnabled bool) (string, error) {
	rows, err := common.ExtractRowsFromReader(bytes.NewReader(data))
	text := strings.Join(rows, "\n")
	if err == nil && len(text) >= common.MinExtractedChars {
		return text, nil
	}
	if !ocrEnabled {
		return text, err
	}

	tmp, err := os.CreateTemp("", "bankfeed-upload-*.pdf")
	if err != nil {
		return text, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return text, err
	}
	tmp.Close()

	if ocr := common.ExtractTextOCR(tmp.Name()); len(ocr) > len(text) {
		return ocr, nil
	}
	return text, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
