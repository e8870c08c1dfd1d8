package paypalcredit

import (
	"strings"
	"testing"
)

func getStatementText() string {
	return strings.Join([]string{
		"CURRENT ACTIVITY",
		"PAYMENTS & CREDITS",
		"Tran Date Posting Date Reference Description Amount",
		"11/30/25 11/30/25 P9283001234 WALMART COM -$1.17",
		"Total Payments & Credits -$1.17",
		"PURCHASES & ADJUSTMENTS",
		"Tran Date Posting Date Reference Description Amount",
		"12/02/25 12/02/25 P9283005678 Standard WALMART COM $69.85",
		"12/05/25 12/05/25 P9283009012 Deferred LOWES.COM No Interest If Paid In Full $240.90",
		"Total Purchases & Adjustments $310.75",
		"FEES",
		"12/16/25 12/16/25 Late Fee $41.00",
		"Total Fees $41.00",
	}, "\n")
}

func TestIsMatch(t *testing.T) {
	if !IsMatch(getStatementText()) {
		t.Error("expected statement text to match")
	}
	if IsMatch("ACCOUNT ACTIVITY\nEff. Date Syst. Date Description Amount") {
		t.Error("expected non-matching text to be rejected")
	}
}

func TestExtract(t *testing.T) {
	got := Extract(getStatementText())
	if len(got) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(got))
	}
	if got[0].DateText != "2025-11-30" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "2025-11-30")
	}
	if got[0].AmountText != "1.17" {
		t.Errorf("payment amount = %q, want %q", got[0].AmountText, "1.17")
	}
	if got[1].AmountText != "-69.85" {
		t.Errorf("purchase amount = %q, want %q", got[1].AmountText, "-69.85")
	}
	if got[2].Description != "LOWES.COM" {
		t.Errorf("Description = %q, want %q", got[2].Description, "LOWES.COM")
	}
	if got[2].AmountText != "-240.90" {
		t.Errorf("deferred purchase amount = %q, want %q", got[2].AmountText, "-240.90")
	}
	if got[3].Description != "Late Fee" {
		t.Errorf("fee description = %q, want %q", got[3].Description, "Late Fee")
	}
	if got[3].AmountText != "-41.00" {
		t.Errorf("fee amount = %q, want %q", got[3].AmountText, "-41.00")
	}
}
