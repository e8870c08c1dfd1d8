// Package allypdf parses Ally Bank statements. Combined customer
// statements carry an Activity table per account (Date, Description,
// Credits, Debits, Balance); card statements use one row per line with
// transaction and posting dates.
package allypdf

import (
	"regexp"
	"strings"

	"github.com/bankfeed/bankfeed/extractor/common"
)

var (
	allyBankRegex = regexp.MustCompile(`(?i)Ally\s+Bank`)
	combinedRegex = regexp.MustCompile(`(?i)COMBINED\s+CUST OMER ST AT EMENT|COMBINED\s+CUSTOMER\s+STATEMENT`)
	activityRegex = regexp.MustCompile(`(?i)\bActivity\b`)
	dateDescRegex = regexp.MustCompile(`(?i)Date\s+Description`)
	creditsRegex  = regexp.MustCompile(`(?i)Credits`)
	debitsRegex   = regexp.MustCompile(`(?i)Debits`)

	// Row repair for extractors that glue an amount to the next row's
	// dates, e.g. "...$600.208/27 08/27 ...".
	gluedRowRegex    = regexp.MustCompile(`(\.\d{2})\s*(\d{1,2}/\d{1,2}\s+\d{1,2}/\d{1,2}\s+[A-Z0-9])`)
	gluedHeaderRegex = regexp.MustCompile(`(?i)(Amoun)(\d{1,2}/\d{1,2}\s+\d{1,2}/\d{1,2}\s+[A-Z0-9])`)

	tableHeaderRegex  = regexp.MustCompile(`(?i)Date\s+Description\s+Credits\s+Debits\s+Balance|Credits\s+Debits\s+Balance`)
	activityOnlyRegex = regexp.MustCompile(`(?i)^Activity\s*$`)
	pageMarkerRegex   = regexp.MustCompile(`^--\s*\d+\s+of\s+\d+\s*--$`)
	fdicFooterRegex   = regexp.MustCompile(`(?i)^Ally\s+Bank\s+Member\s+FDIC`)

	twoAmountsRegex   = regexp.MustCompile(`^(\$?-?[\d,]+\.\d{2})\s+(\$?-?[\d,]+\.\d{2})\s*$`)
	threeAmountsRegex = regexp.MustCompile(`^(\$?-?[\d,]+\.\d{2})\s+(\$?-?[\d,]+\.\d{2})\s+(\$?-?[\d,]+\.\d{2})\s*$`)
	balanceDescRegex  = regexp.MustCompile(`(?i)^(Beginning\s+Balance|Ending\s+Balance)$`)
	balanceRowRegex   = regexp.MustCompile(`(?i)^(\d{1,2}/\d{1,2}/\d{4})\s+(Beginning\s+Balance|Ending\s+Balance)\s+(\$?-?[\d,]+\.\d{2})\s*$`)
	inlineRowRegex    = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(.+?)\s+(\$?-?[\d,]+\.\d{2})\s+(\$?-?[\d,]+\.\d{2})(?:\s+\$?-?[\d,]+\.\d{2})?\s*$`)
	dateStartRegex    = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(.+)$`)
	trailingAmtsRegex = regexp.MustCompile(`\s*\$?-?[\d,]+\.\d{2}\s+\$?-?[\d,]+\.\d{2}(?:\s+\$?-?[\d,]+\.\d{2})?\s*$`)

	transDateRegex        = regexp.MustCompile(`(?i)Trans\s*Date`)
	rowHeadRegex          = regexp.MustCompile(`(?i)Post\s*Date|Reference|Description`)
	cardRowRegex          = regexp.MustCompile(`^(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\s+\d{1,2}/\d{1,2}(?:/\d{2,4})?\s+(?:[A-Z0-9]{8,}\s+)?(.+)\s+(\$?-?[\d,]+\.\d{2})\s*$`)
	footerCodeRegex       = regexp.MustCompile(`^[A-Z0-9]{3,8}$`)
	rowHeaderRemnantRegex = regexp.MustCompile(`(?i)^(Trans\s*Date|Post\s*Date|Reference|Description|Amount)$`)

	junkDescRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^Beginning\s+Balance`),
		regexp.MustCompile(`(?i)^Ending\s+Balance`),
		regexp.MustCompile(`(?i)Beginning\s+Balance,?\s+as\s+of`),
		regexp.MustCompile(`(?i)Ending\s+Balance,?\s+as\s+of`),
		regexp.MustCompile(`(?i)P\.O\.\s*Box\s+\d+`),
		regexp.MustCompile(`(?i)^Account\s+Number\s*:`),
		regexp.MustCompile(`(?i)Open\s+Date\s*:`),
		regexp.MustCompile(`^\d+\s+of\s+\d+\s*$`),
		regexp.MustCompile(`^\d{1,4}$`),
		regexp.MustCompile(`(?i)^Days\s+In\s+Statement\s+Period`),
		regexp.MustCompile(`(?i)^Summary\s+For\s*:`),
		regexp.MustCompile(`(?i)^Statement\s+Date\s*$`),
		regexp.MustCompile(`(?i)^Page\s+\d+`),
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s*$`),
		regexp.MustCompile(`^[\d\-/]+\s*$`),
	}
	numericOnlyDescRegex = regexp.MustCompile(`^[\d\s$.,\-+]+$`)
)

// Preprocess repairs concatenated rows before any dialect matching runs.
func Preprocess(text string) string {
	text = gluedRowRegex.ReplaceAllString(text, "$1\n$2")
	return gluedHeaderRegex.ReplaceAllString(text, "$1\n$2")
}

// IsCombined reports whether the text is an Ally combined customer
// statement with an Activity table.
func IsCombined(text string) bool {
	return (allyBankRegex.MatchString(text) || combinedRegex.MatchString(text)) &&
		activityRegex.MatchString(text) &&
		dateDescRegex.MatchString(text) &&
		creditsRegex.MatchString(text) &&
		debitsRegex.MatchString(text)
}

// activityState tracks progress through one transaction of the Activity
// table, whose description can span several lines before the amount
// columns appear.
type activityState struct {
	date string
	desc []string
}

func (s *activityState) reset() {
	s.date = ""
	s.desc = nil
}

func (s *activityState) accumulating() bool { return s.date != "" }

// ExtractActivityTable parses the Activity table of a combined statement.
// Credits deposit, debits withdraw; the balance column is ignored.
func ExtractActivityTable(text string) []common.Candidate {
	if !activityRegex.MatchString(text) || !dateDescRegex.MatchString(text) ||
		!creditsRegex.MatchString(text) || !debitsRegex.MatchString(text) {
		return nil
	}

	var out []common.Candidate
	inTable := false
	var state activityState

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !inTable {
			if tableHeaderRegex.MatchString(line) {
				inTable = true
				state.reset()
			}
			continue
		}
		if activityOnlyRegex.MatchString(line) {
			state.reset()
			continue
		}
		if pageMarkerRegex.MatchString(line) || fdicFooterRegex.MatchString(line) {
			break
		}

		// Amount columns on their own line close the pending row.
		if state.accumulating() {
			m := threeAmountsRegex.FindStringSubmatch(line)
			if m == nil {
				m = twoAmountsRegex.FindStringSubmatch(line)
			}
			if m != nil {
				if c, ok := flushRow(&state, m[1], m[2]); ok {
					out = append(out, c)
				}
				state.reset()
				continue
			}
		}

		if m := inlineRowRegex.FindStringSubmatch(line); m != nil {
			state.reset()
			desc := strings.TrimSpace(m[2])
			if balanceDescRegex.MatchString(desc) {
				continue
			}
			date := common.NormalizeDate(m[1])
			if date == "" {
				continue
			}
			out = append(out, common.Candidate{
				DateText:    date,
				Description: common.CollapseWhitespace(desc),
				AmountText:  pickAmount(m[3], m[4]),
			})
			continue
		}

		if balanceRowRegex.MatchString(line) {
			state.reset()
			continue
		}

		if m := dateStartRegex.FindStringSubmatch(line); m != nil &&
			!threeAmountsRegex.MatchString(line) && !twoAmountsRegex.MatchString(line) {
			state.date = m[1]
			state.desc = []string{strings.TrimSpace(m[2])}
			continue
		}

		if state.accumulating() &&
			!threeAmountsRegex.MatchString(line) && !twoAmountsRegex.MatchString(line) {
			state.desc = append(state.desc, line)
		}
	}
	return out
}

func flushRow(state *activityState, credits, debits string) (common.Candidate, bool) {
	date := common.NormalizeDate(state.date)
	if date == "" {
		return common.Candidate{}, false
	}
	desc := common.CollapseWhitespace(strings.Join(state.desc, " "))
	desc = strings.TrimSpace(trailingAmtsRegex.ReplaceAllString(desc, ""))
	if desc == "" || balanceDescRegex.MatchString(desc) {
		return common.Candidate{}, false
	}
	return common.Candidate{
		DateText:    date,
		Description: desc,
		AmountText:  pickAmount(credits, debits),
	}, true
}

// pickAmount folds credit and debit columns into one signed value. A
// nonzero debit wins; Ally records debits negative already.
func pickAmount(credits, debits string) string {
	d := common.NormalizeAmount(debits)
	if d != "0.00" {
		return d
	}
	return common.NormalizeAmount(credits)
}

// ExtractRowStyle parses card-style statements where each line holds
// transaction date, posting date, an optional reference, description and
// amount.
func ExtractRowStyle(text string) []common.Candidate {
	if !transDateRegex.MatchString(text) || !rowHeadRegex.MatchString(text) {
		return nil
	}

	year := common.InferYear(text)
	var out []common.Candidate
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := cardRowRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[2])
		if footerCodeRegex.MatchString(desc) || rowHeaderRemnantRegex.MatchString(desc) {
			continue
		}
		dateText := m[1]
		if len(dateText) <= 5 {
			dateText += "/" + year
		}
		date := common.NormalizeDate(dateText)
		if date == "" {
			continue
		}
		out = append(out, common.Candidate{
			DateText:    date,
			Description: common.CollapseWhitespace(desc),
			AmountText:  common.NormalizeAmount(m[3]),
		})
	}
	return out
}

// FilterJunk drops rows whose description is a balance line, address,
// page marker or other table furniture.
func FilterJunk(cands []common.Candidate) []common.Candidate {
	out := make([]common.Candidate, 0, len(cands))
	for _, c := range cands {
		desc := strings.TrimSpace(c.Description)
		if desc == "" || numericOnlyDescRegex.MatchString(desc) {
			continue
		}
		junk := false
		for _, re := range junkDescRegexes {
			if re.MatchString(desc) {
				junk = true
				break
			}
		}
		if junk {
			continue
		}
		out = append(out, c)
	}
	return out
}
