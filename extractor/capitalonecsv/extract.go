// Package capitalonecsv parses Capital One 360 CSV exports, whose date
// column omits the year and whose amounts carry a separate Debit/Credit
// category column.
package capitalonecsv

import (
	"encoding/csv"
	"io"
	"log"
	"strings"

	"github.com/bankfeed/bankfeed/extractor/common"
)

var headerSignature = []string{"date", "description", "category", "amount"}

// IsMatch reports whether the first row carries the Capital One export
// header.
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

// Parse reads the export and returns raw candidates. The statement year is
// taken from the filename since the date column only holds month and day.
func Parse(r io.Reader, filename string) []common.Candidate {
	year := common.YearFromFilename(filename)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var candidates []common.Candidate
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
		if IsMatch(record) {
			continue
		}

		dateCell, descCell, category, amountCell := record[0], record[1], record[2], record[3]
		if dateCell == "" || descCell == "" {
			continue
		}
		if strings.EqualFold(descCell, "Opening Balance") {
			continue
		}

		date := common.NormalizeDate(dateCell)
		if date == "" {
			date = common.NormalizeDate(dateCell + ", " + year)
		}
		if date == "" {
			continue
		}

		candidates = append(candidates, common.Candidate{
			DateText:    date,
			Description: common.CollapseWhitespace(descCell),
			AmountText:  signedAmount(amountCell, category),
		})
	}
	return candidates
}

// signedAmount applies the category column to the magnitude: Credit rows
// (or amounts already prefixed with +) are positive, everything else is a
// debit.
func signedAmount(amount, category string) string {
	positive := strings.EqualFold(category, "Credit") || strings.HasPrefix(amount, "+")
	n := common.NormalizeAmount(amount)
	if n == "0.00" {
		return n
	}
	mag := strings.TrimPrefix(n, "-")
	if positive {
		return mag
	}
	return "-" + mag
}
