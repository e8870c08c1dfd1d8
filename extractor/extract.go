// Package extractor routes statement files to their dialect parsers. CSV
// dialects are detected from the header row; PDF dialects from signature
// phrases in the extracted text, tried in fixed precedence so the first
// parser to produce rows wins.
package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bankfeed/bankfeed/ai"
	"github.com/bankfeed/bankfeed/extractor/allycsv"
	"github.com/bankfeed/bankfeed/extractor/allypdf"
	"github.com/bankfeed/bankfeed/extractor/capitalonecsv"
	"github.com/bankfeed/bankfeed/extractor/capitalonepdf"
	"github.com/bankfeed/bankfeed/extractor/common"
	"github.com/bankfeed/bankfeed/extractor/discoverpdf"
	"github.com/bankfeed/bankfeed/extractor/genericcsv"
	"github.com/bankfeed/bankfeed/extractor/genericpdf"
	"github.com/bankfeed/bankfeed/extractor/paypalcredit"
)

// CSVDialect identifies the CSV layout detected from the header row.
type CSVDialect string

const (
	CSVAlly       CSVDialect = "ally"
	CSVCapitalOne CSVDialect = "capitalone"
	CSVGeneric    CSVDialect = "generic"
)

// PDFDialect identifies the statement layout detected from extracted text.
type PDFDialect string

const (
	PDFDiscover     PDFDialect = "discover"
	PDFCapitalOne   PDFDialect = "capitalone"
	PDFPayPalCredit PDFDialect = "paypalcredit"
	PDFAlly         PDFDialect = "ally"
	PDFGeneric      PDFDialect = "generic"
)

// minParseableChars is the least text worth running the cascade on.
const minParseableChars = 10

// DetectCSVDialect picks the parser for a CSV by its first row. Exact
// dialect signatures win over the generic convention parser.
func DetectCSVDialect(firstRow []string) CSVDialect {
	switch {
	case allycsv.IsMatch(firstRow):
		return CSVAlly
	case capitalonecsv.IsMatch(firstRow):
		return CSVCapitalOne
	default:
		return CSVGeneric
	}
}

// DetectPDFDialect reports which dialect the cascade would try first. The
// text must already be preprocessed.
func DetectPDFDialect(text string) PDFDialect {
	switch {
	case discoverpdf.IsMatch(text):
		return PDFDiscover
	case capitalonepdf.IsMatch(text):
		return PDFCapitalOne
	case paypalcredit.IsMatch(text):
		return PDFPayPalCredit
	case allypdf.IsCombined(text):
		return PDFAlly
	default:
		return PDFGeneric
	}
}

// ParseCSV reads and parses a CSV statement file.
func ParseCSV(path string) ([]common.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ParseCSVData(data, path), nil
}

// ParseCSVData parses in-memory CSV content. The filename supplies the
// statement year for dialects whose date column omits it.
func ParseCSVData(data []byte, filename string) []common.Candidate {
	firstRow := readFirstRow(data)
	dialect := DetectCSVDialect(firstRow)
	log.Printf("csv dialect for %s: %s", filename, dialect)

	r := bytes.NewReader(data)
	switch dialect {
	case CSVAlly:
		return allycsv.Parse(r)
	case CSVCapitalOne:
		return capitalonecsv.Parse(r, filename)
	default:
		return genericcsv.Parse(r)
	}
}

func readFirstRow(data []byte) []string {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	row, err := reader.Read()
	if err != nil {
		return nil
	}
	return row
}

// ParsePDF extracts text from a PDF statement and runs the dialect
// cascade. The generator may be nil to disable AI extraction.
func ParsePDF(ctx context.Context, path string, cfg common.Config, gen ai.Generator) ([]common.Candidate, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}
	text := common.ExtractText(path, cfg.OCREnabled)
	return ParseText(ctx, text, cfg, gen), nil
}

// ParseText runs the dialect cascade over extracted statement text.
// Parsers are tried in fixed precedence and the first non-empty result
// wins. For the two layouts that routinely defeat positional parsing,
// model extraction runs before the pattern parsers when it is enabled.
func ParseText(ctx context.Context, text string, cfg common.Config, gen ai.Generator) []common.Candidate {
	if len(strings.TrimSpace(text)) < minParseableChars {
		return nil
	}
	text = allypdf.Preprocess(text)

	if cfg.AI.Enabled && gen != nil {
		if ai.IsDiscoverStatement(text) {
			if rows := ai.Extract(ctx, gen, ai.DialectDiscover, text, cfg.AI); len(rows) > 0 {
				return rows
			}
		}
		if ai.IsAllyStatement(text) {
			if rows := ai.Extract(ctx, gen, ai.DialectAlly, text, cfg.AI); len(rows) > 0 {
				return rows
			}
		}
	}

	if rows := discoverpdf.Extract(text); len(rows) > 0 {
		return rows
	}
	if rows := capitalonepdf.Extract(text); len(rows) > 0 {
		return rows
	}
	if rows := paypalcredit.Extract(text); len(rows) > 0 {
		return rows
	}

	isAllyCombined := allypdf.IsCombined(text)
	if rows := allypdf.ExtractActivityTable(text); len(rows) > 0 {
		return allypdf.FilterJunk(rows)
	}
	if rows := allypdf.ExtractRowStyle(text); len(rows) > 0 {
		return allypdf.FilterJunk(rows)
	}
	if isAllyCombined {
		// The combined statement matched no structured parser; salvage
		// what the generic parsers find and strip the table furniture.
		merged := append(genericpdf.ExtractColumnar(text), genericpdf.ExtractLines(text)...)
		return allypdf.FilterJunk(merged)
	}

	if rows := genericpdf.ExtractColumnar(text); len(rows) > 0 {
		return rows
	}
	return genericpdf.ExtractLines(text)
}
