// Package genericpdf holds the last-resort PDF parsers: a columnar mode
// for extractors that emit each table column as a separate run of lines,
// and a line mode for anything with a date and an amount on one line.
package genericpdf

import (
	"regexp"
	"strings"

	"github.com/bankfeed/bankfeed/extractor/common"
)

var (
	transDateLabelRegex  = regexp.MustCompile(`(?i)^Trans\s*Date$`)
	transDateInLineRegex = regexp.MustCompile(`(?i)Trans\s*Date`)
	descLabelRegex       = regexp.MustCompile(`(?i)^(Transactions|Description)\s*(\(continued\))?$`)
	amountLabelRegex     = regexp.MustCompile(`(?i)^Amount$`)

	shortDateRegex  = regexp.MustCompile(`^\d{1,2}/\d{1,2}(/\d{2,4})?$`)
	anyDateRegex    = regexp.MustCompile(`\d{1,2}/\d{1,2}(/\d{2,4})?`)
	amountOnlyRegex = regexp.MustCompile(`^\$?-?[\d,]+\.\d{2}\s*$`)
	footerCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,8}$`)
	refCodeRegex    = regexp.MustCompile(`^[A-Z0-9]{10,}$`)
	columnSkipRegex = regexp.MustCompile(`(?i)^Reference$|^Post\s+Date$|^PAGE\s+\d+\s+of\s+\d+|^(Description|Transactions)\s*$`)
	hasLetterRegex  = regexp.MustCompile(`[A-Za-z]`)
	pageLeadRegex   = regexp.MustCompile(`(?i)^PAGE\s+`)

	lineDateRegex   = regexp.MustCompile(`(\d{1,4}[-/]\d{1,2}[-/]\d{1,4}|\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`)
	lineAmountRegex = regexp.MustCompile(`-?\d+\.?\d{0,2}\s*$|-?\d+\.\d{2}`)
	amountTailRegex = regexp.MustCompile(`\s*-?\$?\s*-?[\d,\s]+\.\d{2}\s*$`)
	parenTailRegex  = regexp.MustCompile(`\s*\(\s*[\d,]+\s*\.?\d*\s*\)\s*$`)
)

// ExtractColumnar zips the Trans Date, Description and Amount column runs
// into rows, pairing them in order and stopping at the shortest column.
func ExtractColumnar(text string) []common.Candidate {
	lines := splitLines(text)
	year := common.InferYear(text)

	var dates, descs, amounts []string

	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case transDateLabelRegex.MatchString(line):
			i++
			i = collectDates(lines, i, year, &dates)
		case transDateInLineRegex.MatchString(line) && !amountLabelRegex.MatchString(line):
			for _, d := range anyDateRegex.FindAllString(line, -1) {
				appendDate(d, year, &dates)
			}
			i++
			i = collectDates(lines, i, year, &dates)
		case descLabelRegex.MatchString(line):
			i++
			i = collectDescriptions(lines, i, &descs)
		case amountLabelRegex.MatchString(line):
			i++
			for i < len(lines) && amountOnlyRegex.MatchString(lines[i]) {
				amounts = append(amounts, common.NormalizeAmount(lines[i]))
				i++
			}
		default:
			i++
		}
	}

	n := len(dates)
	if len(descs) < n {
		n = len(descs)
	}
	if len(amounts) < n {
		n = len(amounts)
	}
	out := make([]common.Candidate, 0, n)
	for j := 0; j < n; j++ {
		out = append(out, common.Candidate{
			DateText:    dates[j],
			Description: descs[j],
			AmountText:  amounts[j],
		})
	}
	return out
}

func collectDates(lines []string, i int, year string, dates *[]string) int {
	for i < len(lines) && shortDateRegex.MatchString(lines[i]) {
		appendDate(lines[i], year, dates)
		i++
	}
	return i
}

func appendDate(d, year string, dates *[]string) {
	if len(d) <= 5 {
		d += "/" + year
	}
	if norm := common.NormalizeDate(d); norm != "" {
		*dates = append(*dates, norm)
	}
}

func collectDescriptions(lines []string, i int, descs *[]string) int {
	for i < len(lines) {
		ln := lines[i]
		if amountLabelRegex.MatchString(ln) || amountOnlyRegex.MatchString(ln) {
			break
		}
		if columnSkipRegex.MatchString(ln) || footerCodeRegex.MatchString(ln) {
			i++
			continue
		}
		if len(ln) >= 4 && hasLetterRegex.MatchString(ln) &&
			!shortDateRegex.MatchString(ln) && !pageLeadRegex.MatchString(ln) &&
			!refCodeRegex.MatchString(ln) {
			*descs = append(*descs, common.CollapseWhitespace(ln))
		}
		i++
	}
	return i
}

// ExtractLines takes any line containing both a date and an amount, using
// the remainder as the description.
func ExtractLines(text string) []common.Candidate {
	var out []common.Candidate
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		dateMatch := lineDateRegex.FindString(line)
		if dateMatch == "" {
			continue
		}
		forAmount := strings.NewReplacer(",", "", "(", "-", ")", "").Replace(line)
		amountMatch := lineAmountRegex.FindString(forAmount)
		if amountMatch == "" {
			continue
		}
		date := common.NormalizeDate(dateMatch)
		if date == "" {
			continue
		}

		rest := strings.Replace(line, dateMatch, "", 1)
		rest = amountTailRegex.ReplaceAllString(rest, "")
		rest = parenTailRegex.ReplaceAllString(rest, "")
		desc := common.CollapseWhitespace(rest)
		if desc == "" {
			continue
		}
		out = append(out, common.Candidate{
			DateText:    date,
			Description: desc,
			AmountText:  common.NormalizeAmount(amountMatch),
		})
	}
	return out
}

func splitLines(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if ln := strings.TrimSpace(raw); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}
