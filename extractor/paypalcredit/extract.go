// Package paypalcredit parses PayPal Credit and similar revolving-credit
// statements. Activity is grouped into payment, purchase and fee sections;
// payments stay positive while purchases and fees are charges.
package paypalcredit

import (
	"regexp"
	"strings"

	"github.com/bankfeed/bankfeed/extractor/common"
)

var (
	activityRegex = regexp.MustCompile(`(?i)CURRENT\s+ACTIVITY`)
	sectionsRegex = regexp.MustCompile(`(?i)PAYMENTS\s*&\s*CREDITS|PURCHASES\s*&\s*ADJUSTMENTS`)

	paymentsHeaderRegex  = regexp.MustCompile(`(?i)^PAYMENTS\s*&\s*CREDITS\s*$`)
	purchasesHeaderRegex = regexp.MustCompile(`(?i)^PURCHASES\s*&\s*ADJUSTMENTS\s*$`)
	feesHeaderRegex      = regexp.MustCompile(`(?i)^FEES\s*$`)
	sectionTotalRegex    = regexp.MustCompile(`(?i)Total\s+Purchases\s*&|Total\s+Fees\s*$`)
	columnHeaderRegex    = regexp.MustCompile(`(?i)^Tran\s+Date\s+Posting\s+Date\s+(?:Reference|Description)`)

	paymentRowRegex  = regexp.MustCompile(`(?s)^(\d{1,2}/\d{1,2}/\d{2})\s+\d{1,2}/\d{1,2}/\d{2}\s+P[A-Z0-9]+\s+(.+?)\s+-\$?([\d,]+\.\d{2})\s*$`)
	purchaseRowRegex = regexp.MustCompile(`(?s)^(\d{1,2}/\d{1,2}/\d{2})\s+\d{1,2}/\d{1,2}/\d{2}\s+P[A-Z0-9]+\s+(?:Standard|Deferred)\s+(.+)\s+\$?([\d,]+\.\d{2})\s*$`)
	feeRowRegex      = regexp.MustCompile(`(?s)^(\d{1,2}/\d{1,2}/\d{2})\s+\d{1,2}/\d{1,2}/\d{2}\s+(.+?)\s+\$?([\d,]+\.\d{2})\s*$`)

	promoSuffixRegex = regexp.MustCompile(`(?i)\s*No\s+Interest\s+If\s+Paid\s+In\s+Full\s*$`)
)

type section int

const (
	sectionNone section = iota
	sectionPayments
	sectionPurchases
	sectionFees
)

// IsMatch reports whether the text looks like a PayPal Credit statement.
func IsMatch(text string) bool {
	return activityRegex.MatchString(text) && sectionsRegex.MatchString(text)
}

// Extract parses the statement text. It returns nil when the signature is
// absent or nothing parses.
func Extract(text string) []common.Candidate {
	if !IsMatch(text) {
		return nil
	}

	var out []common.Candidate
	sec := sectionNone
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case paymentsHeaderRegex.MatchString(line):
			sec = sectionPayments
			continue
		case purchasesHeaderRegex.MatchString(line):
			sec = sectionPurchases
			continue
		case feesHeaderRegex.MatchString(line):
			sec = sectionFees
			continue
		case sectionTotalRegex.MatchString(line):
			sec = sectionNone
			continue
		case columnHeaderRegex.MatchString(line):
			continue
		}

		switch sec {
		case sectionPayments:
			if m := paymentRowRegex.FindStringSubmatch(line); m != nil {
				if c, ok := buildRow(m, false); ok {
					out = append(out, c)
				}
			}
		case sectionPurchases:
			if m := purchaseRowRegex.FindStringSubmatch(line); m != nil {
				m[2] = promoSuffixRegex.ReplaceAllString(m[2], "")
				if c, ok := buildRow(m, true); ok {
					out = append(out, c)
				}
			}
		case sectionFees:
			if m := feeRowRegex.FindStringSubmatch(line); m != nil {
				if c, ok := buildRow(m, true); ok {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

func buildRow(m []string, charge bool) (common.Candidate, bool) {
	date := common.NormalizeDate(m[1])
	if date == "" {
		return common.Candidate{}, false
	}
	amount := common.NormalizeAmount(m[3])
	if charge {
		amount = "-" + amount
	}
	return common.Candidate{
		DateText:    date,
		Description: common.CollapseWhitespace(m[2]),
		AmountText:  amount,
	}, true
}
