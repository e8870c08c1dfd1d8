package genericcsv

import (
	"strings"
	"testing"
)

func TestParseHeadered(t *testing.T) {
	input := "Date,Description,Amount\n01/15/2024,Coffee Shop,-4.50\n"

	got := Parse(strings.NewReader(input))
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	c := got[0]
	if c.DateText != "2024-01-15" {
		t.Errorf("DateText = %q, want %q", c.DateText, "2024-01-15")
	}
	if c.Description != "Coffee Shop" {
		t.Errorf("Description = %q, want %q", c.Description, "Coffee Shop")
	}
	if c.AmountText != "-4.50" {
		t.Errorf("AmountText = %q, want %q", c.AmountText, "-4.50")
	}
}

func TestParseHeaderless(t *testing.T) {
	input := "01/15/2024,Coffee Shop,-4.50\n01/16/2024,Grocery,-22.10\n"

	got := Parse(strings.NewReader(input))
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[1].Description != "Grocery" {
		t.Errorf("Description = %q, want %q", got[1].Description, "Grocery")
	}
}

func TestParseAliasHeaders(t *testing.T) {
	input := "Posting Date,Merchant,Debit\n2024-03-02,Hardware Store,(15.25)\n"

	got := Parse(strings.NewReader(input))
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].DateText != "2024-03-02" {
		t.Errorf("DateText = %q, want %q", got[0].DateText, "2024-03-02")
	}
	if got[0].AmountText != "-15.25" {
		t.Errorf("AmountText = %q, want %q", got[0].AmountText, "-15.25")
	}
}

func TestParsePrefersNameOverType(t *testing.T) {
	input := "Date,Type,Name,Amount\n01/05/2024,Payment,Acme Corp,100.00\n"

	got := Parse(strings.NewReader(input))
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Description != "Acme Corp" {
		t.Errorf("Description = %q, want %q", got[0].Description, "Acme Corp")
	}
}

func TestParseDropsBadRows(t *testing.T) {
	input := "Date,Description,Amount\nnot a date,Something,5.00\n01/15/2024,,5.00\n01/16/2024,Valid,5.00\n"

	got := Parse(strings.NewReader(input))
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Description != "Valid" {
		t.Errorf("Description = %q, want %q", got[0].Description, "Valid")
	}
}

func TestParseBOMHeader(t *testing.T) {
	input := "\ufeffDate,Description,Amount\n01/15/2024,Store,-1.00\n"

	got := Parse(strings.NewReader(input))
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
}

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		row  []string
		want bool
	}{
		{[]string{"Date", "Description", "Amount"}, true},
		{[]string{"Trans Date", "Memo"}, true},
		{[]string{"01/15/2024", "Coffee Shop", "-4.50"}, false},
		{[]string{"Date", "foo", "bar"}, false},
	}
	for _, c := range cases {
		if _, got := detectHeader(c.row); got != c.want {
			t.Errorf("detectHeader(%v) = %v, want %v", c.row, got, c.want)
		}
	}
}
