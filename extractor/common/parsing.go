package common

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	nonAmountRegex  = regexp.MustCompile(`[^0-9.\-()]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	mdyYearRegex    = regexp.MustCompile(`\d{1,2}/\d{1,2}/(\d{4})`)
	standaloneYear  = regexp.MustCompile(`\b(20\d{2})\b`)
	periodMarker    = regexp.MustCompile(`(?i)Statement\s+(?:Period|Closing\s+Date)`)
	filenameYear    = regexp.MustCompile(`20\d{2}`)
	anyFourDigits   = regexp.MustCompile(`\d{4}`)
	headerSepRegex  = regexp.MustCompile(`[\s\-]+`)
)

// dateLayouts are tried in order by NormalizeDate. ISO first so normalizing
// an already normalized date is a no-op.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2006/01/02",
	"2-Jan-2006",
	"02 Jan 2006",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3:04 pm",
}

// NormalizeAmount converts a raw amount string to a signed value with
// exactly two fraction digits. Currency symbols, thousands separators and
// stray text are stripped; accounting parentheses become a leading minus.
// The function is total: anything unparsable degrades to "0.00".
func NormalizeAmount(raw string) string {
	s := strings.ReplaceAll(raw, ",", "")
	s = whitespaceRegex.ReplaceAllString(s, "")
	s = nonAmountRegex.ReplaceAllString(s, "")
	if strings.ContainsAny(s, "()") {
		s = strings.ReplaceAll(s, "(", "-")
		s = strings.ReplaceAll(s, ")", "")
	}
	if s == "" || s == "-" {
		return "0.00"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

// NormalizeDate converts a raw date string to ISO YYYY-MM-DD. Returns the
// empty string when no known layout matches, which tells callers to drop
// the candidate.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// NormalizeTime converts a raw time string to HH:MM:SS, defaulting to
// midnight when missing or unparsable.
func NormalizeTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "00:00:00"
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05")
		}
	}
	return "00:00:00"
}

// CollapseWhitespace trims a string and squeezes internal runs of
// whitespace to single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// InferYear finds the statement year in extracted text. A 4-digit year next
// to a "Statement Period" / "Statement Closing Date" marker wins; then a
// full MM/DD/YYYY date anywhere; then the first standalone 2000-2099 year;
// finally the current year.
func InferYear(text string) string {
	if loc := periodMarker.FindStringIndex(text); loc != nil {
		window := text[loc[1]:]
		if len(window) > 80 {
			window = window[:80]
		}
		if m := standaloneYear.FindStringSubmatch(window); m != nil {
			return m[1]
		}
	}
	if m := mdyYearRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := standaloneYear.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return time.Now().UTC().Format("2006")
}

// YearFromFilename extracts a 4-digit year from a statement filename, e.g.
// 2024 from "capitalone-20240401-Bank statement.csv". Falls back to any
// 4-digit run, then the current year.
func YearFromFilename(name string) string {
	base := filepath.Base(name)
	if m := filenameYear.FindString(base); m != "" {
		return m
	}
	if m := anyFourDigits.FindString(base); m != "" {
		return m
	}
	return time.Now().UTC().Format("2006")
}

// StripBOM removes a UTF-8 byte order mark from the start of a cell.
func StripBOM(s string) string {
	return strings.TrimPrefix(s, "\xEF\xBB\xBF")
}

// NormalizeHeaderCell lowercases a header cell and collapses whitespace and
// hyphens so "Trans-Date" and "trans date" compare equal.
func NormalizeHeaderCell(cell string) string {
	c := StripBOM(cell)
	c = headerSepRegex.ReplaceAllString(c, " ")
	return strings.ToLower(strings.TrimSpace(c))
}
