package capitalonepdf

import (
	"strings"
	"testing"
)

func getStatementText() string {
	return strings.Join([]string{
		"Account Summary",
		"STATEMENT PERIOD 04/01/2024 - 04/30/2024",
		"Bills - 36286714191",
		"DATE DESCRIPTION CATEGORY AMOUNT",
		"Apr 1 Opening Balance $6,284.95",
		"Apr 1 Withdrawal from Electric Co Debit - $106.37 $6,178.58",
		"Apr 17 Deposit from Employer ACH Credit + $50.00 $6,228.58",
		"Shared - 36230695284",
		"Apr 20 Withdrawal from Grocery Mart Debit - $82.14 $912.09",
		"Apr 30 Closing Balance $912.09",
	}, "\n")
}

func TestIsMatch(t *testing.T) {
	if !IsMatch(getStatementText()) {
		t.Error("expected statement text to match")
	}
	if IsMatch("Activity\nDate Description Credits Debits Balance") {
		t.Error("expected non-matching text to be rejected")
	}
}

func TestExtract(t *testing.T) {
	got := Extract(getStatementText())
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	if got[0].DateText != "2024-04-01" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "2024-04-01")
	}
	if got[0].AmountText != "-106.37" {
		t.Errorf("debit amount = %q, want %q", got[0].AmountText, "-106.37")
	}
	if got[0].SourceHint != "Bills" {
		t.Errorf("SourceHint = %q, want %q", got[0].SourceHint, "Bills")
	}
	if got[1].AmountText != "50.00" {
		t.Errorf("credit amount = %q, want %q", got[1].AmountText, "50.00")
	}
	if got[2].SourceHint != "Shared" {
		t.Errorf("SourceHint = %q, want %q", got[2].SourceHint, "Shared")
	}
	if got[2].Description != "Withdrawal from Grocery Mart" {
		t.Errorf("Description = %q", got[2].Description)
	}
}

func TestExtractJoined(t *testing.T) {
	text := strings.Join([]string{
		"Account Summary",
		"Your accounts:",
		"Bills - 36286714191",
		"Apr 1",
		"Withdrawal from Electric Co",
		"Debit - $106.37",
	}, "\n")

	got := Extract(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].AmountText != "-106.37" {
		t.Errorf("amount = %q, want %q", got[0].AmountText, "-106.37")
	}
	if got[0].SourceHint != "Bills" {
		t.Errorf("SourceHint = %q, want %q", got[0].SourceHint, "Bills")
	}
}

func TestCleanDescription(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Withdrawal from Electric Co Page 3 of 7", "Withdrawal from Electric Co"},
		{"Deposit from Employer capitalone.com", "Deposit from Employer"},
		{"Transfer Here's your statement summary", "Transfer"},
		{"Plain Merchant", "Plain Merchant"},
	}
	for _, c := range cases {
		if got := CleanDescription(c.in); got != c.want {
			t.Errorf("CleanDescription(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
