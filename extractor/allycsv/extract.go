// Package allycsv parses Ally Bank CSV exports, which split activity into
// separate credit and debit columns and continue long descriptions across
// rows with an empty date cell.
package allycsv

import (
	"encoding/csv"
	"io"
	"log"
	"strings"

	"github.com/bankfeed/bankfeed/extractor/common"
)

var headerSignature = []string{"date", "description", "credits", "debits"}

// IsMatch reports whether the first row carries the Ally export header.
func IsMatch(firstRow []string) bool {
	if len(firstRow) < len(headerSignature) {
		return false
	}
	for i, want := range headerSignature {
		if common.NormalizeHeaderCell(common.StripBOM(firstRow[i])) != want {
			return false
		}
	}
	return true
}

// Parse reads the export and returns raw candidates. Rows with an empty
// date cell extend the description of the preceding transaction.
func Parse(r io.Reader) []common.Candidate {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var candidates []common.Candidate
	open := false
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
		if len(record) < 4 {
			continue
		}

		dateCell, descCell, creditsCell, debitsCell := record[0], record[1], record[2], record[3]

		// Exports repeat the header before each account section; the
		// preceding transaction stays open for continuation across it.
		if IsMatch(record) {
			continue
		}
		if strings.EqualFold(descCell, "Beginning Balance") {
			open = false
			continue
		}

		if dateCell == "" {
			// Continuation lines only extend a transaction still open; a
			// continuation after a skipped row is dropped.
			if open && descCell != "" && len(candidates) > 0 {
				last := &candidates[len(candidates)-1]
				last.Description = common.CollapseWhitespace(last.Description + " " + descCell)
			}
			continue
		}

		date := common.NormalizeDate(dateCell)
		if date == "" || descCell == "" {
			open = false
			continue
		}

		candidates = append(candidates, common.Candidate{
			DateText:    date,
			Description: common.CollapseWhitespace(descCell),
			AmountText:  pickAmount(creditsCell, debitsCell),
		})
		open = true
	}
	return candidates
}

// pickAmount folds the credit and debit columns into one signed amount.
// Credits are positive; Ally already records debits as negative values.
func pickAmount(credits, debits string) string {
	c := common.NormalizeAmount(credits)
	if c != "0.00" {
		return c
	}
	return common.NormalizeAmount(debits)
}
