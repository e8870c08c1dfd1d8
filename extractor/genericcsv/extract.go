// Package genericcsv parses CSV statements with no fixed schema, detecting
// columns by conventional header names and falling back to positional
// columns when no header row is present.
package genericcsv

import (
	"encoding/csv"
	"io"
	"log"
	"strings"

	"github.com/bankfeed/bankfeed/extractor/common"
)

// headerAliases maps each logical field to the header spellings that
// statement exports use for it.
var headerAliases = map[string][]string{
	"date":        {"date", "transaction date", "trans date", "posting date", "trans_date"},
	"time":        {"time", "transaction time"},
	"description": {"description", "merchant", "payee", "memo", "details", "name", "narrative", "type"},
	"amount":      {"amount", "debit", "credit", "transaction amount", "sum", "total", "net", "gross"},
}

// minHeaderMatches is how many logical fields must be recognized in the
// first row before it is treated as a header.
const minHeaderMatches = 2

// columnMap resolves logical fields to column indices. A value of -1 means
// the field has no column.
type columnMap struct {
	date, time, description, amount int
}

// positionalMap is the headerless fallback: date, description, amount.
var positionalMap = columnMap{date: 0, time: -1, description: 1, amount: 2}

// Parse reads the CSV and returns raw candidates. Rows with an unparsable
// date or empty description are dropped; a malformed row never aborts the
// file.
func Parse(r io.Reader) []common.Candidate {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var candidates []common.Candidate
	cols := positionalMap
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN skipping malformed CSV row: %v", err)
			continue
		}
		for i := range record {
			record[i] = strings.TrimSpace(common.StripBOM(record[i]))
		}

		if first {
			first = false
			if m, ok := detectHeader(record); ok {
				cols = m
				continue
			}
		}

		c, ok := mapRow(record, cols)
		if !ok {
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates
}

// detectHeader reports whether the row looks like a header this parser
// understands, and if so which columns carry each field.
func detectHeader(row []string) (columnMap, bool) {
	normalized := make([]string, len(row))
	for i, cell := range row {
		normalized[i] = common.NormalizeHeaderCell(cell)
	}

	found := 0
	for field, aliases := range headerAliases {
		for _, cell := range normalized {
			if cell == field || contains(aliases, cell) {
				found++
				break
			}
		}
	}
	if found < minHeaderMatches {
		return columnMap{}, false
	}

	cols := columnMap{date: -1, time: -1, description: -1, amount: -1}
	nameCol := -1
	typeCol := -1
	for i, cell := range normalized {
		switch {
		case cols.date == -1 && matches("date", cell):
			cols.date = i
		case cols.time == -1 && matches("time", cell):
			cols.time = i
		case cols.description == -1 && matches("description", cell):
			cols.description = i
		case cols.amount == -1 && matches("amount", cell):
			cols.amount = i
		}
		if cell == "name" {
			nameCol = i
		}
		if cell == "type" {
			typeCol = i
		}
	}
	// Payment-processor exports have both Type and Name; Type is a category
	// there, so Name is the better description.
	if cols.description == typeCol && nameCol != -1 {
		cols.description = nameCol
	}
	return cols, true
}

func matches(field, cell string) bool {
	if cell == field {
		return true
	}
	return contains(headerAliases[field], cell)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func mapRow(record []string, cols columnMap) (common.Candidate, bool) {
	date := common.NormalizeDate(cell(record, cols.date))
	if date == "" {
		return common.Candidate{}, false
	}
	desc := common.CollapseWhitespace(cell(record, cols.description))
	if desc == "" {
		return common.Candidate{}, false
	}
	return common.Candidate{
		DateText:    date,
		TimeText:    cell(record, cols.time),
		Description: desc,
		AmountText:  common.NormalizeAmount(cell(record, cols.amount)),
	}, true
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
