package allypdf

import (
	"strings"
	"testing"

	"github.com/bankfeed/bankfeed/extractor/common"
)

func TestPreprocess(t *testing.T) {
	in := "Debit Card Purchase $600.208/27 08/27 GROCERY MART"
	want := "Debit Card Purchase $600.20\n8/27 08/27 GROCERY MART"
	if got := Preprocess(in); got != want {
		t.Errorf("Preprocess = %q, want %q", got, want)
	}

	in = "Trans Date Post Date Description Amoun08/27 08/27 GROCERY MART"
	if got := Preprocess(in); !strings.Contains(got, "Amoun\n08/27") {
		t.Errorf("header repair failed: %q", got)
	}
}

func TestIsCombined(t *testing.T) {
	text := "Ally Bank\nActivity\nDate Description Credits Debits Balance"
	if !IsCombined(text) {
		t.Error("expected combined statement to match")
	}
	if IsCombined("Account Summary\nDATE DESCRIPTION CATEGORY AMOUNT") {
		t.Error("expected non-matching text to be rejected")
	}
}

func TestExtractActivityTable(t *testing.T) {
	text := strings.Join([]string{
		"Ally Bank",
		"Activity",
		"Date Description Credits Debits Balance",
		"01/02/2024 Beginning Balance 500.00",
		"01/03/2024 Direct Deposit",
		"Employer Payroll",
		"100.00 0.00",
		"01/04/2024 Debit Card Purchase 0.00 -42.17 557.83",
		"01/31/2024 Ending Balance 557.83",
		"-- 1 of 4 --",
	}, "\n")

	got := ExtractActivityTable(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].DateText != "2024-01-03" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "2024-01-03")
	}
	if got[0].Description != "Direct Deposit Employer Payroll" {
		t.Errorf("Description = %q", got[0].Description)
	}
	if got[0].AmountText != "100.00" {
		t.Errorf("credit amount = %q, want %q", got[0].AmountText, "100.00")
	}
	if got[1].AmountText != "-42.17" {
		t.Errorf("debit amount = %q, want %q", got[1].AmountText, "-42.17")
	}
}

func TestExtractActivityTableStopsAtPageMarker(t *testing.T) {
	text := strings.Join([]string{
		"Activity",
		"Date Description Credits Debits Balance",
		"-- 1 of 4 --",
		"01/03/2024 Should Not Appear 100.00 0.00",
	}, "\n")

	if got := ExtractActivityTable(text); len(got) != 0 {
		t.Errorf("expected no candidates past page marker, got %d", len(got))
	}
}

func TestExtractRowStyle(t *testing.T) {
	text := strings.Join([]string{
		"Statement Closing Date 09/21/2025",
		"Trans Date Post Date Reference Description Amount",
		"08/27 08/27 24492165ABC GROCERY MART $54.10",
		"08/29 08/30 FSF1 $0.00",
		"09/01/2025 09/02/2025 UTILITY PAYMENT $-120.00",
	}, "\n")

	got := ExtractRowStyle(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].DateText != "2025-08-27" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "2025-08-27")
	}
	if got[0].Description != "GROCERY MART" {
		t.Errorf("Description = %q, want %q", got[0].Description, "GROCERY MART")
	}
	if got[1].AmountText != "-120.00" {
		t.Errorf("amount = %q, want %q", got[1].AmountText, "-120.00")
	}
}

func TestFilterJunk(t *testing.T) {
	descs := []string{
		"Beginning Balance",
		"GROCERY MART",
		"P.O. Box 951",
		"1 of 4",
		"$0.00 -$10.00",
		"Ending Balance, as of 01/31",
		"UTILITY PAYMENT",
	}
	in := make([]common.Candidate, len(descs))
	for i, d := range descs {
		in[i] = common.Candidate{DateText: "2024-01-03", Description: d, AmountText: "1.00"}
	}

	got := FilterJunk(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Description != "GROCERY MART" || got[1].Description != "UTILITY PAYMENT" {
		t.Errorf("unexpected survivors: %q, %q", got[0].Description, got[1].Description)
	}
}

func TestFilterJunkIdempotent(t *testing.T) {
	in := []common.Candidate{
		{DateText: "2024-01-03", Description: "GROCERY MART", AmountText: "1.00"},
		{DateText: "2024-01-04", Description: "Page 2", AmountText: "1.00"},
	}
	once := FilterJunk(in)
	twice := FilterJunk(once)
	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("row %d changed on second pass", i)
		}
	}
}
