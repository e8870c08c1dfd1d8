package capitalonecsv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatch(t *testing.T) {
	tests := []struct {
		row      []string
		expected bool
	}{
		{[]string{"Date", "Description", "Category", "Amount"}, true},
		{[]string{"\ufeffDate", "Description", "Category", "Amount"}, true},
		{[]string{"Date", "Description", "Credits", "Debits"}, false},
		{[]string{"Date", "Description", "Amount"}, false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, IsMatch(test.row))
	}
}

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Category,Amount",
		"Apr 1,Opening Balance,,1000.00",
		"Apr 2,Grocery Store,Debit,54.23",
		"Apr 3,Payroll Deposit,Credit,2100.00",
		"Apr 4,Refund,,+12.00",
	}, "\n")

	got := Parse(strings.NewReader(input), "statement_2024.csv")
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	if got[0].DateText != "2024-04-02" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "2024-04-02")
	}
	if got[0].AmountText != "-54.23" {
		t.Errorf("debit amount = %q, want %q", got[0].AmountText, "-54.23")
	}
	if got[1].AmountText != "2100.00" {
		t.Errorf("credit amount = %q, want %q", got[1].AmountText, "2100.00")
	}
	if got[2].AmountText != "12.00" {
		t.Errorf("plus-prefixed amount = %q, want %q", got[2].AmountText, "12.00")
	}
}

func TestParseYearFromFilenameFallback(t *testing.T) {
	input := "Date,Description,Category,Amount\nJun 9,Coffee,Debit,3.75\n"

	got := Parse(strings.NewReader(input), "export_1999.csv")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].DateText != "1999-06-09" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "1999-06-09")
	}
}
