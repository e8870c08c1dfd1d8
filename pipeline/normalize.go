// Package pipeline turns raw parsed candidates into normalized
// transactions: signs resolved by policy, excluded rows dropped and a
// stable fingerprint assigned to each row.
package pipeline

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankfeed/bankfeed/extractor/common"
)

// Transaction is a fully normalized statement row.
type Transaction struct {
	Fingerprint string `json:"fingerprint"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Origination string `json:"origination,omitempty"`
	SourceHint  string `json:"source_hint,omitempty"`
}

// Normalize converts candidates into transactions: dates and times are
// normalized, the configured sign policy is applied, excluded descriptions
// are dropped and fingerprints assigned. Candidates without a usable date
// are discarded.
func Normalize(cands []common.Candidate, cfg common.Config) []Transaction {
	txs := make([]Transaction, 0, len(cands))
	for _, c := range cands {
		date := common.NormalizeDate(c.DateText)
		if date == "" {
			continue
		}
		desc := common.CollapseWhitespace(c.Description)
		if desc == "" {
			continue
		}
		txs = append(txs, Transaction{
			Date:        date,
			Time:        common.NormalizeTime(c.TimeText),
			Description: desc,
			Amount:      ApplySign(common.NormalizeAmount(c.AmountText), desc, cfg),
			SourceHint:  c.SourceHint,
		})
	}
	txs = FilterExcluded(txs, cfg.ExcludedDescriptions)
	AssignFingerprints(txs)
	return txs
}

// ApplySign resolves the final sign of an amount. Under the preserve
// policy the parsed sign stands. Under the keyword policy a debit
// override phrase forces negative, a credit phrase forces positive, and
// everything else is treated as spending.
func ApplySign(amount, description string, cfg common.Config) string {
	if amount == "0.00" || amount == "-0.00" {
		return "0.00"
	}
	if cfg.SignPolicy != common.SignKeywords {
		return amount
	}
	magnitude := strings.TrimPrefix(amount, "-")
	desc := strings.ToLower(description)

	for _, phrase := range cfg.DebitOverridePhrases {
		if phrase != "" && strings.Contains(desc, strings.ToLower(phrase)) {
			return "-" + magnitude
		}
	}
	for _, phrase := range cfg.CreditPhrases {
		if phrase != "" && strings.Contains(desc, strings.ToLower(phrase)) {
			return magnitude
		}
	}
	return "-" + magnitude
}

// FilterExcluded drops transactions whose description contains any of the
// excluded phrases. The match is case-insensitive and substring-based, so
// filtering an already filtered slice is a no-op.
func FilterExcluded(txs []Transaction, excluded []string) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if isExcluded(tx.Description, excluded) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func isExcluded(description string, excluded []string) bool {
	desc := strings.ToLower(strings.TrimSpace(description))
	for _, phrase := range excluded {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" && strings.Contains(desc, phrase) {
			return true
		}
	}
	return false
}

// Fingerprint derives the stable identity of a transaction from its date,
// time, description and amount.
func Fingerprint(tx Transaction) string {
	sum := md5.Sum([]byte(tx.Date + "|" + tx.Time + "|" + tx.Description + "|" + tx.Amount))
	return "tx-" + hex.EncodeToString(sum[:])
}

// AssignFingerprints sets the fingerprint on every transaction. Rows that
// collide within the batch get an ordinal suffix in first-seen order, so
// identical legitimate rows survive import.
func AssignFingerprints(txs []Transaction) {
	seen := make(map[string]int, len(txs))
	for i := range txs {
		base := Fingerprint(txs[i])
		seen[base]++
		if seen[base] == 1 {
			txs[i].Fingerprint = base
		} else {
			txs[i].Fingerprint = fmt.Sprintf("%s-%d", base, seen[base])
		}
	}
}

// SignedDecimal parses a normalized amount for storage.
func SignedDecimal(amount string) (decimal.Decimal, error) {
	return decimal.NewFromString(amount)
}
