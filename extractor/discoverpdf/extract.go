// Package discoverpdf parses Discover bank statements. The activity table
// shows no sign on amounts; the section a row sits in (deposits vs
// withdrawals) determines it.
package discoverpdf

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
	signatureRegex  = regexp.MustCompile(`(?i)Eff\.\s*Date|Description\s+Amount`)
	activityRegex   = regexp.MustCompile(`(?i)ACCOUNT\s+ACTIVITY`)
	periodYearRegex = regexp.MustCompile(`(?i)Statement Period:[^\n]*?(\d{4})`)
	anyYearRegex    = regexp.MustCompile(`\b(20\d{2})\b`)

	creditSectionRegex = regexp.MustCompile(`(?i)Deposits\s+and\s+Credits`)
	debitSectionRegex  = regexp.MustCompile(`(?i)ATM\s+and\s+Debit\s+Card\s+Withdrawals|Electronic\s+Withdrawals|Service\s+Charges`)
	headerLineRegex    = regexp.MustCompile(`(?i)^Eff\.\s*Date|^Syst\.\s*Date|^Description\s*$|^Amount\s*$`)
	totalLineRegex     = regexp.MustCompile(`(?i)^TOTAL\s+|^Continued\s+on\s+Page`)
	hasCentsRegex      = regexp.MustCompile(`\d+\.\d{2}`)
	leadingDollarRegex = regexp.MustCompile(`^\s*\$?\s*`)
	lineRowRegex       = regexp.MustCompile(`(?i)^` + monthsCap + `\s+(\d{1,2})\s+` + monthsNC + `\s+\d{1,2}\s+(.+)\s+([\d,]+\.\d{2})\s*$`)

	newlineRegex    = regexp.MustCompile(`\s*\r?\n\s*`)
	rowStartRegex   = regexp.MustCompile(`(?is)` + monthsCap + `\s+\d{1,2}\s+` + monthsNC + `\s+\d{1,2}\b`)
	segmentRegex    = regexp.MustCompile(`(?is)^` + monthsCap + `\s+(\d{1,2})\s+` + monthsNC + `\s+\d{1,2}\s+(.*)`)
	restHeaderRegex = regexp.MustCompile(`(?i)^(?:Eff\.\s*Date|Syst\.\s*Date|Description\s+Amount)\b`)
	restTotalRegex  = regexp.MustCompile(`(?i)TOTAL\s+(?:DEPOSITS|ATM|ELECTRONIC|SERVICE)`)
	totalLabelRegex = regexp.MustCompile(`(?i)TOTAL\s+(?:DEPOSITS\s+AND\s+CREDITS|ATM\s+AND\s+DEBIT\s+CARD\s+WITHDRAWALS|ELECTRONIC\s+WITHDRAWALS|SERVICE\s+CHARGES)`)
	amountRegex     = regexp.MustCompile(`[\d,]+\.\d{2}\b`)

	descAnchorRegex   = regexp.MustCompile(`(?i)(Debit Purchase|POS Credit|POS w/ Cash|Check Deposit|ACH Withdrawal|ACH Deposit From|Early Pay|ATM W/D)`)
	descRefRegex      = regexp.MustCompile(`^\s*\d+\s+\d+\s+`)
	descCutRegex      = regexp.MustCompile(`\s+(?:[\d,]+\.\d{2}\b|TOTAL\b)`)
	descAmountTail    = regexp.MustCompile(`(?i)\s+Amount\s+.*$`)
	descDatesTail     = regexp.MustCompile(`(?i)\s+` + monthsNC + `\s+\d{1,2}\s+` + monthsNC + `\s+\d{1,2}\s*$`)
	descDollarTail    = regexp.MustCompile(`\s+\$\s*$`)
	descAmountLead    = regexp.MustCompile(`^[\d,]+\.\d{2}\s+`)
	datesOnlyRegex    = regexp.MustCompile(`(?i)^` + monthsNC + `\s+\d{1,2}\s+` + monthsNC + `\s+\d{1,2}\s*$`)
	trailingAmtsRegex = regexp.MustCompile(`(?s)\s*[\d,]+\.\d{2}\b.*$`)
	dayOnlyRegex      = regexp.MustCompile(`^\d{1,2}$`)
)

// IsMatch reports whether the text looks like a Discover activity
// statement.
func IsMatch(text string) bool {
	return signatureRegex.MatchString(text) && activityRegex.MatchString(text)
}

// Extract parses the statement text. It returns nil when the signature is
// absent or nothing parses.
func Extract(text string) []common.Candidate {
	if !IsMatch(text) {
		return nil
	}

	year := statementYear(text)

	if rows := extractLineByLine(text, year); len(rows) > 0 {
		return rows
	}
	return extractPositional(text, year)
}

func statementYear(text string) string {
	if m := periodYearRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := anyYearRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return common.InferYear(text)
}

// extractLineByLine handles layout-preserving extraction where each
// transaction occupies one line. Section headers flip the sign state.
func extractLineByLine(text, year string) []common.Candidate {
	var out []common.Candidate
	inCredits := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if creditSectionRegex.MatchString(line) && !hasCentsRegex.MatchString(line) {
			inCredits = true
			continue
		}
		if debitSectionRegex.MatchString(line) {
			inCredits = false
			continue
		}
		if headerLineRegex.MatchString(line) || totalLineRegex.MatchString(line) {
			continue
		}

		m := lineRowRegex.FindStringSubmatch(leadingDollarRegex.ReplaceAllString(line, ""))
		if m == nil {
			continue
		}
		date := common.NormalizeDate(m[1] + " " + m[2] + ", " + year)
		if date == "" {
			continue
		}
		amount := common.NormalizeAmount(m[4])
		if amount == "0.00" {
			continue
		}
		if !inCredits {
			amount = "-" + amount
		}
		out = append(out, common.Candidate{
			DateText:    date,
			Description: common.CollapseWhitespace(m[3]),
			AmountText:  amount,
		})
	}
	return out
}

type positionalRow struct {
	month    string
	day      string
	rest     string
	isCredit bool
}

// extractPositional handles token-per-line extractions. The text is joined
// into one string; row starts, amounts and descriptions are matched
// independently by position and then paired in order. A shortfall of
// amounts against rows means the pairing cannot be trusted, so nothing is
// returned.
func extractPositional(text, year string) []common.Candidate {
	joined := newlineRegex.ReplaceAllString(text, " ")

	searchStart := indexFold(joined, "ACCOUNT ACTIVITY")
	if searchStart < 0 {
		if p := indexFold(joined, "Deposits and Credits"); p >= 0 {
			searchStart = p
		} else {
			searchStart = 0
		}
	}
	toSearch := joined[searchStart:]
	posTotalDeposits := indexFold(toSearch, "TOTAL DEPOSITS AND CREDITS")

	rows := collectRows(toSearch, posTotalDeposits)
	amounts := collectAmounts(toSearch)
	if len(rows) == 0 || len(amounts) < len(rows) {
		return nil
	}
	descriptions := collectDescriptions(toSearch)

	var out []common.Candidate
	for i, row := range rows {
		date := common.NormalizeDate(row.month + " " + row.day + ", " + year)
		if date == "" {
			continue
		}
		desc := ""
		if i < len(descriptions) {
			desc = descriptions[i]
		}
		if desc == "" {
			desc = fallbackDescription(row.rest)
		}
		amount := common.NormalizeAmount(amounts[i])
		if amount == "0.00" {
			continue
		}
		if !row.isCredit {
			amount = "-" + amount
		}
		out = append(out, common.Candidate{
			DateText:    date,
			Description: desc,
			AmountText:  amount,
		})
	}
	return out
}

// collectRows splits the joined text at each "Mon d Mon d" row start. Rows
// located before the deposits total line are credits.
func collectRows(toSearch string, posTotalDeposits int) []positionalRow {
	starts := rowStartRegex.FindAllStringIndex(toSearch, -1)
	var rows []positionalRow
	for i, loc := range starts {
		end := len(toSearch)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		seg := strings.TrimSpace(toSearch[loc[0]:end])
		m := segmentRegex.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		rest := m[3]
		if restHeaderRegex.MatchString(rest) {
			continue
		}
		// A segment runs until the next row start, so a section total can
		// trail the last row of a section. Trim it off the fallback text.
		if t := restTotalRegex.FindStringIndex(rest); t != nil {
			rest = rest[:t[0]]
		}
		rows = append(rows, positionalRow{
			month:    m[1],
			day:      m[2],
			rest:     rest,
			isCredit: posTotalDeposits < 0 || loc[0] < posTotalDeposits,
		})
	}
	return rows
}

// collectAmounts gathers every cents-bearing number except the section
// totals, identified as the first amount within 25 characters of a TOTAL
// label.
func collectAmounts(toSearch string) []string {
	skip := map[int]bool{}
	for _, loc := range totalLabelRegex.FindAllStringIndex(toSearch, -1) {
		end := loc[1]
		window := toSearch[end:min(end+25, len(toSearch))]
		if m := amountRegex.FindStringIndex(window); m != nil {
			skip[end+m[0]] = true
		}
	}

	var amounts []string
	for _, loc := range amountRegex.FindAllStringIndex(toSearch, -1) {
		if skip[loc[0]] {
			continue
		}
		amounts = append(amounts, toSearch[loc[0]:loc[1]])
	}
	return amounts
}

// collectDescriptions pulls merchant text anchored on the transaction type
// phrases Discover prints before each description.
func collectDescriptions(toSearch string) []string {
	anchors := descAnchorRegex.FindAllStringIndex(toSearch, -1)
	var descs []string
	for i, loc := range anchors {
		anchor := toSearch[loc[0]:loc[1]]
		end := len(toSearch)
		if i+1 < len(anchors) {
			end = anchors[i+1][0]
		}
		region := descRefRegex.ReplaceAllString(toSearch[loc[1]:end], " ")
		if m := descCutRegex.FindStringIndex(region); m != nil {
			region = region[:m[0]]
		}
		descs = append(descs, cleanDescription(region, anchor))
	}
	return descs
}

func cleanDescription(d, anchor string) string {
	d = descAmountTail.ReplaceAllString(d, "")
	d = descDatesTail.ReplaceAllString(d, "")
	d = descDollarTail.ReplaceAllString(d, "")
	d = descAmountLead.ReplaceAllString(strings.TrimSpace(d), "")
	d = common.CollapseWhitespace(d)
	if d == "" || datesOnlyRegex.MatchString(d) {
		return strings.TrimSpace(anchor)
	}
	return d
}

func fallbackDescription(rest string) string {
	d := trailingAmtsRegex.ReplaceAllString(rest, "")
	d = strings.TrimPrefix(strings.TrimSpace(d), "Description ")
	d = strings.TrimSuffix(d, " Amount")
	d = common.CollapseWhitespace(d)
	if d != "" && dayOnlyRegex.MatchString(d) {
		return "Transaction"
	}
	return d
}

// indexFold is a case-insensitive strings.Index.
func indexFold(s, sub string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(sub))
}
