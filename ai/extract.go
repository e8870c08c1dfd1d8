package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/bankfeed/bankfeed/extractor/common"
)

// Dialect selects the system prompt for a statement layout.
type Dialect int

const (
	DialectDiscover Dialect = iota
	DialectAlly
)

// minTextLength is the smallest extracted text worth sending to a model.
const minTextLength = 100

var (
	discoverActivityRegex = regexp.MustCompile(`(?i)ACCOUNT\s+ACTIVITY`)
	discoverColumnsRegex  = regexp.MustCompile(`(?i)Eff\.\s*Date|Description\s+Amount`)
	discoverSectionRegex  = regexp.MustCompile(`(?i)ATM\s+and\s+Debit`)
	allyBankRegex         = regexp.MustCompile(`(?i)Ally\s+Bank`)
	allyCombinedRegex     = regexp.MustCompile(`(?i)COMBINED\s+CUST OMER ST AT EMENT|COMBINED\s+CUSTOMER\s+STATEMENT`)
	allyActivityRegex     = regexp.MustCompile(`(?i)\bActivity\b`)
	allyColumnsRegex      = regexp.MustCompile(`(?i)Date\s+Description\s+Credits\s+Debits\s+Balance`)
	nonAmountRegex        = regexp.MustCompile(`[^0-9.\-]`)
)

// IsDiscoverStatement reports whether the text looks like a Discover
// activity statement worth sending to a model.
func IsDiscoverStatement(text string) bool {
	return discoverActivityRegex.MatchString(text) &&
		(discoverColumnsRegex.MatchString(text) || discoverSectionRegex.MatchString(text))
}

// IsAllyStatement reports whether the text looks like an Ally combined
// customer statement worth sending to a model.
func IsAllyStatement(text string) bool {
	return (allyBankRegex.MatchString(text) || allyCombinedRegex.MatchString(text)) &&
		allyActivityRegex.MatchString(text) &&
		allyColumnsRegex.MatchString(text)
}

// Extract asks the generator for a structured transaction list and parses
// the response. Any model failure or unparsable response yields an empty
// result so pattern extraction can take over.
func Extract(ctx context.Context, gen Generator, dialect Dialect, text string, cfg common.AIConfig) []common.Candidate {
	if gen == nil || !cfg.Enabled {
		return nil
	}
	text = strings.TrimSpace(text)
	if len(text) < minTextLength {
		return nil
	}

	system := discoverSystemPrompt
	if dialect == DialectAlly {
		system = allySystemPrompt
	}

	resp, err := gen.Generate(ctx, system, userPrompt(text, cfg.MaxInputChars), cfg.MaxOutputTokens)
	if err != nil {
		return nil
	}
	return ParseResponse(resp)
}

// aiRow is one element of the model's JSON array. Amount tolerates both
// string and number encodings.
type aiRow struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Amount      any    `json:"amount"`
}

// ParseResponse decodes a model response into candidates. Fences and prose
// around the JSON array are tolerated; rows without a date or amount are
// dropped.
func ParseResponse(resp string) []common.Candidate {
	payload := extractJSONArray(resp)
	if payload == "" {
		return nil
	}

	var rows []aiRow
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return nil
	}

	var out []common.Candidate
	for _, row := range rows {
		date := common.NormalizeDate(strings.TrimSpace(row.Date))
		amount := rowAmount(row.Amount)
		if date == "" || amount == "" {
			continue
		}
		desc := common.CollapseWhitespace(row.Description)
		if desc == "" {
			desc = "Transaction"
		}
		out = append(out, common.Candidate{
			DateText:    date,
			TimeText:    strings.TrimSpace(row.Time),
			Description: desc,
			AmountText:  amount,
		})
	}
	return out
}

// extractJSONArray pulls the outermost JSON array out of a response that
// may carry markdown fences or explanatory text.
func extractJSONArray(resp string) string {
	s := strings.TrimSpace(resp)
	if start := strings.Index(s, "["); start >= 0 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = s[start : end+1]
		}
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return ""
	}
	return s
}

// rowAmount normalizes the amount field, returning "" when absent so the
// row can be rejected. This differs from text parsing, where a missing
// amount degrades to zero.
func rowAmount(v any) string {
	var raw string
	switch t := v.(type) {
	case string:
		raw = t
	case float64:
		raw = fmt.Sprintf("%.2f", t)
	case json.Number:
		raw = t.String()
	default:
		return ""
	}
	raw = nonAmountRegex.ReplaceAllString(raw, "")
	if raw == "" || raw == "-" {
		return ""
	}
	return common.NormalizeAmount(raw)
}
