package common

// Candidate is a single transaction as extracted by a dialect parser,
// before normalization. Fields hold raw text in whatever shape the source
// dialect uses; the pipeline package turns candidates into final records.
type Candidate struct {
	DateText    string `json:"date"`
	TimeText    string `json:"time,omitempty"`
	Description string `json:"description"`
	AmountText  string `json:"amount"`
	// SourceHint carries an account label discovered during parsing, for
	// multi-account statements where one file covers several accounts.
	SourceHint string `json:"source_hint,omitempty"`
}

// SignPolicy selects how the pipeline assigns amount signs.
type SignPolicy string

const (
	// SignPreserve keeps the sign already present in the parsed amount.
	// Dialect parsers emit correctly signed amounts, so this is the default.
	SignPreserve SignPolicy = "preserve"
	// SignKeywords infers the sign from description keywords. Only for
	// dialects that do not encode a sign at all; must be selected explicitly.
	SignKeywords SignPolicy = "keywords"
)

// AIConfig controls the optional structured-extraction path.
type AIConfig struct {
	Enabled         bool
	Model           string
	MaxOutputTokens int32
	// MaxInputChars bounds how much statement text is sent per request.
	MaxInputChars int
}

// Config carries caller-provided parsing and normalization policy. It is
// built once (from the CLI config file or by an embedding application) and
// passed into the parsing entry points; extractors never read global state.
type Config struct {
	SignPolicy           SignPolicy
	ExcludedDescriptions []string
	CreditPhrases        []string
	DebitOverridePhrases []string
	AI                   AIConfig
	OCREnabled           bool
}

// DefaultConfig returns the built-in policy lists. Callers can replace or
// extend any list before parsing.
func DefaultConfig() Config {
	return Config{
		SignPolicy: SignPreserve,
		ExcludedDescriptions: []string{
			"beginning balance",
			"begining balance",
			"starting balance",
			"ending balance",
			"opening balance",
			"closing balance",
			"previous balance",
			"current balance",
			"balance forward",
			"balance brought forward",
			"total credits",
			"total debits",
			"credit total",
			"debit total",
			"payment due date",
			"statement closing date",
			"past due amount",
			"trans date",
			"post date",
			"reference",
			"transactions",
			"description",
			"amount",
			"total fees for this period",
			"interest charged",
			"interest charge on purchases",
			"interest charge on cash advances",
			"total interest for this period",
			"fees",
			"fsf1",
			"fsfq",
		},
		CreditPhrases: []string{
			"payment",
			"credit",
			"deposit",
			"refund",
			"reimbursement",
			"reward",
			"cash back",
			"cashback",
			"interest credit",
			"direct deposit",
			"payroll",
			"transfer from",
			"payment received",
			"credit adjustment",
			"credit balance",
			"early pay",
			"ach from",
			"ach deposit",
			"check deposit",
			"pos credit",
		},
		DebitOverridePhrases: []string{
			"payroll fees",
		},
		AI: AIConfig{
			Model:           "gemini-2.0-flash",
			MaxOutputTokens: 16000,
			MaxInputChars:   120000,
		},
		OCREnabled: true,
	}
}
