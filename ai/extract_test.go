package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bankfeed/bankfeed/extractor/common"
)

type stubGenerator struct {
	response string
	err      error
	called   bool
}

func (s *stubGenerator) Generate(ctx context.Context, system, user string, maxOutputTokens int32) (string, error) {
	s.called = true
	return s.response, s.err
}

func testAIConfig() common.AIConfig {
	return common.AIConfig{
		Enabled:         true,
		Model:           "gemini-2.0-flash",
		MaxOutputTokens: 16000,
		MaxInputChars:   120000,
	}
}

func longStatementText() string {
	return strings.Repeat("ACCOUNT ACTIVITY Eff. Date Description Amount ", 10)
}

func TestParseResponse(t *testing.T) {
	resp := `[{"date":"2024-10-31","description":"POS Credit 1030 THOMPSON HIGH S","amount":"150.00"},
	{"date":"2024-11-01","description":"ACH Withdrawal Evernest WEB PMTS","amount":"-1841.94"}]`

	got := ParseResponse(resp)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].DateText != "2024-10-31" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "2024-10-31")
	}
	if got[1].AmountText != "-1841.94" {
		t.Errorf("AmountText = %q, want %q", got[1].AmountText, "-1841.94")
	}
}

func TestParseResponseStripsFences(t *testing.T) {
	resp := "Here are the transactions:\n```json\n[{\"date\":\"2024-10-31\",\"description\":\"Coffee\",\"amount\":\"-4.50\"}]\n```"

	got := ParseResponse(resp)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].AmountText != "-4.50" {
		t.Errorf("AmountText = %q, want %q", got[0].AmountText, "-4.50")
	}
}

func TestParseResponseNumericAmount(t *testing.T) {
	got := ParseResponse(`[{"date":"2024-10-31","description":"Coffee","amount":-4.5}]`)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].AmountText != "-4.50" {
		t.Errorf("AmountText = %q, want %q", got[0].AmountText, "-4.50")
	}
}

func TestParseResponseDropsInvalidRows(t *testing.T) {
	resp := `[
		{"date":"","description":"No Date","amount":"1.00"},
		{"date":"2024-10-31","description":"No Amount"},
		{"date":"2024-10-31","description":"","amount":"2.00"}
	]`

	got := ParseResponse(resp)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Description != "Transaction" {
		t.Errorf("empty description not defaulted: %q", got[0].Description)
	}
}

func TestParseResponseGarbage(t *testing.T) {
	if got := ParseResponse("sorry, I cannot help with that"); got != nil {
		t.Errorf("expected nil for non-JSON response, got %v", got)
	}
	if got := ParseResponse(`{"not":"an array"}`); got != nil {
		t.Errorf("expected nil for non-array response, got %v", got)
	}
}

func TestExtractGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	got := Extract(context.Background(), gen, DialectDiscover, longStatementText(), testAIConfig())
	if got != nil {
		t.Errorf("expected nil on generator error, got %v", got)
	}
	if !gen.called {
		t.Error("generator was not invoked")
	}
}

func TestExtractDisabled(t *testing.T) {
	gen := &stubGenerator{response: `[{"date":"2024-10-31","description":"Coffee","amount":"-4.50"}]`}
	cfg := testAIConfig()
	cfg.Enabled = false

	if got := Extract(context.Background(), gen, DialectDiscover, longStatementText(), cfg); got != nil {
		t.Errorf("expected nil when disabled, got %v", got)
	}
	if gen.called {
		t.Error("generator should not be invoked when disabled")
	}
}

func TestExtractShortText(t *testing.T) {
	gen := &stubGenerator{response: "[]"}
	if got := Extract(context.Background(), gen, DialectAlly, "too short", testAIConfig()); got != nil {
		t.Errorf("expected nil for short text, got %v", got)
	}
	if gen.called {
		t.Error("generator should not be invoked for short text")
	}
}

func TestIsDiscoverStatement(t *testing.T) {
	if !IsDiscoverStatement("ACCOUNT ACTIVITY\nEff. Date Syst. Date Description Amount") {
		t.Error("expected Discover text to match")
	}
	if IsDiscoverStatement("Ally Bank Activity") {
		t.Error("expected Ally text to be rejected")
	}
}

func TestIsAllyStatement(t *testing.T) {
	if !IsAllyStatement("Ally Bank\nActivity\nDate Description Credits Debits Balance") {
		t.Error("expected Ally text to match")
	}
	if IsAllyStatement("ACCOUNT ACTIVITY Eff. Date") {
		t.Error("expected Discover text to be rejected")
	}
}
