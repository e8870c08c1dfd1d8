// Package capitalonepdf parses Capital One 360 multi-account statements.
// Account section headers carry the account nickname; each row names the
// direction with a Debit -/Credit + marker.
package capitalonepdf

import (
	"regexp"
	"strings"

	"github.com/bankfeed/bankfeed/extractor/common"
)

const (
	monthsNC  = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`
	monthsCap = `(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`
)

var (
	signatureRegex = regexp.MustCompile(`(?i)Account\s+Summary|ACCOUNT\s+NAME`)

	accountHeaderRegex = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9\s.]+?)\s*-\s*\d{8,}\s*$`)
	columnHeaderRegex  = regexp.MustCompile(`(?i)^DATE\s+DESCRIPTION\s+CATEGORY\s+AMOUNT`)
	balanceLineRegex   = regexp.MustCompile(`(?i)^` + monthsNC + `\s+\d{1,2}\s+(?:Opening|Closing)\s+Balance\s+`)
	rowRegex           = regexp.MustCompile(`(?is)^` + monthsCap + `\s+(\d{1,2})\s+(.+?)\s+(?:Debit\s*-\s*\$?([\d,]+\.\d{2})|Credit\s*\+\s*\$?([\d,]+\.\d{2}))(?:\s+\$[\d,]+\.\d{2})?\s*$`)
	badDescRegex       = regexp.MustCompile(`(?i)^(Apr\s+\d+\s+-\s+Apr|Here's your|Opening\s+Balance|Closing\s+Balance)`)

	newlineRegex   = regexp.MustCompile(`\s*\r?\n\s*`)
	joinedRowRegex = regexp.MustCompile(`(?is)` + monthsCap + `\s+(\d{1,2})\s+(.+?)\s+(?:Debit\s*-\s*\$?([\d,]+\.\d{2})|Credit\s*\+\s*\$?([\d,]+\.\d{2}))(?:\s+\$[\d,]+\.\d{2})?`)
	joinedAccRegex = regexp.MustCompile(`([A-Za-z0-9][A-Za-z0-9\s.]+?)\s*-\s*\d{8,}`)

	junkSuffixRegex = regexp.MustCompile(`(?is)\s*(?:Page\s+\d+\s+of\s+\d+|capitalone\.com|1-\d{3}-\d{3}-\d{4}|STATEMENT\s+PERIOD|DATE\s+DESCRIPTION|CATEGORY\s+AMOUNT|BALANCE\b|TOTAL\s+[A-Z\s]+|Opening\s+Balance|Closing\s+Balance|Apr\s+\d+\s+-\s+Apr\s+\d+.*|Here's your.*|Account\s+Summary|Cashflow\s+Summary|P\.O\.\s+Box.*).*$`)
)

// IsMatch reports whether the text looks like a Capital One statement.
func IsMatch(text string) bool {
	return signatureRegex.MatchString(text)
}

// Extract parses the statement text. It returns nil when the signature is
// absent or nothing parses.
func Extract(text string) []common.Candidate {
	if !IsMatch(text) {
		return nil
	}
	year := common.InferYear(text)

	var out []common.Candidate
	account := ""
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := accountHeaderRegex.FindStringSubmatch(line); m != nil {
			account = common.CollapseWhitespace(m[1])
			continue
		}
		if columnHeaderRegex.MatchString(line) {
			continue
		}
		if account == "" {
			continue
		}
		if balanceLineRegex.MatchString(line) {
			continue
		}
		if c, ok := parseRow(rowRegex.FindStringSubmatch(line), year, account); ok {
			out = append(out, c)
		}
	}

	if len(out) == 0 {
		out = extractJoined(text, year)
	}
	return out
}

// extractJoined handles token-per-line extractions: the text is joined and
// rows are matched in the running string, attributed to the nearest account
// header before them.
func extractJoined(text, year string) []common.Candidate {
	joined := newlineRegex.ReplaceAllString(text, " ")

	var out []common.Candidate
	account := ""
	searched := 0
	for _, loc := range joinedRowRegex.FindAllStringSubmatchIndex(joined, -1) {
		for _, acc := range joinedAccRegex.FindAllStringSubmatchIndex(joined[searched:loc[0]], -1) {
			account = common.CollapseWhitespace(joined[searched+acc[2] : searched+acc[3]])
		}
		searched = loc[0]

		m := matchGroups(joined, loc)
		src := account
		if src == "" {
			src = "Account"
		}
		if c, ok := parseRow(m, year, src); ok {
			out = append(out, c)
		}
	}
	return out
}

// matchGroups rebuilds the submatch slice from index pairs, with "" for
// groups that did not participate.
func matchGroups(s string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

// parseRow turns a row submatch (month, day, description, debit, credit)
// into a candidate.
func parseRow(m []string, year, account string) (common.Candidate, bool) {
	if m == nil {
		return common.Candidate{}, false
	}
	date := common.NormalizeDate(m[1] + " " + m[2] + ", " + year)
	if date == "" {
		return common.Candidate{}, false
	}
	desc := CleanDescription(m[3])
	if desc == "" || badDescRegex.MatchString(desc) {
		return common.Candidate{}, false
	}
	amount := "0.00"
	if m[4] != "" {
		amount = "-" + strings.ReplaceAll(m[4], ",", "")
	} else if m[5] != "" {
		amount = strings.ReplaceAll(m[5], ",", "")
	}
	return common.Candidate{
		DateText:    date,
		Description: desc,
		AmountText:  common.NormalizeAmount(amount),
		SourceHint:  account,
	}, true
}

// CleanDescription strips footer, header and summary text that column
// extraction can glue onto a description.
func CleanDescription(desc string) string {
	desc = junkSuffixRegex.ReplaceAllString(common.CollapseWhitespace(desc), "")
	return common.CollapseWhitespace(desc)
}
