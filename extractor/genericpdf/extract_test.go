package genericpdf

import (
	"strings"
	"testing"
)

func TestExtractColumnar(t *testing.T) {
	text := strings.Join([]string{
		"Statement Closing Date 09/21/2025",
		"Trans Date",
		"08/27",
		"08/29",
		"Description",
		"GROCERY MART",
		"FSF1",
		"UTILITY PAYMENT",
		"PAGE 2 of 4",
		"Amount",
		"$54.10",
		"$-120.00",
	}, "\n")

	got := ExtractColumnar(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].DateText != "2025-08-27" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "2025-08-27")
	}
	if got[0].Description != "GROCERY MART" {
		t.Errorf("Description = %q, want %q", got[0].Description, "GROCERY MART")
	}
	if got[1].Description != "UTILITY PAYMENT" {
		t.Errorf("Description = %q, want %q", got[1].Description, "UTILITY PAYMENT")
	}
	if got[1].AmountText != "-120.00" {
		t.Errorf("AmountText = %q, want %q", got[1].AmountText, "-120.00")
	}
}

func TestExtractColumnarEmptyWhenColumnMissing(t *testing.T) {
	text := strings.Join([]string{
		"Trans Date",
		"08/27",
		"Description",
		"GROCERY MART",
	}, "\n")

	if got := ExtractColumnar(text); len(got) != 0 {
		t.Errorf("expected no candidates without an amount column, got %d", len(got))
	}
}

func TestExtractLines(t *testing.T) {
	text := strings.Join([]string{
		"Some Bank Statement",
		"01/15/2024 Coffee Shop 4.50",
		"01/16/2024 Refund Store (12.00)",
		"no transaction here",
	}, "\n")

	got := ExtractLines(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].DateText != "2024-01-15" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "2024-01-15")
	}
	if got[0].Description != "Coffee Shop" {
		t.Errorf("Description = %q, want %q", got[0].Description, "Coffee Shop")
	}
	if got[0].AmountText != "4.50" {
		t.Errorf("AmountText = %q, want %q", got[0].AmountText, "4.50")
	}
	if got[1].AmountText != "-12.00" {
		t.Errorf("paren amount = %q, want %q", got[1].AmountText, "-12.00")
	}
}

func TestExtractLinesNothingParsable(t *testing.T) {
	if got := ExtractLines("just some words\nwithout numbers"); len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}
