package ledger

import "testing"

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"$1,234.50", 1234.50},
		{"₹2,000", 2000},
		{"  3500 ", 3500},
		{"", 0},
		{"   ", 0},
		{"n/a", 0},
		{"$", 0},
		{"1,000,000", 1000000},
	}

	for _, tc := range tests {
		if got := ParseCurrency(tc.raw); got != tc.want {
			t.Errorf("ParseCurrency(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"42", 42},
		{" 3.5 ", 3.5},
		{"", 0},
		{"abc", 0},
	}

	for _, tc := range tests {
		if got := ParseNumeric(tc.raw); got != tc.want {
			t.Errorf("ParseNumeric(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"85%", 85},
		{" 12.5 % ", 12.5},
		{"12.5%", 12.5},
		{"90", 90},
		{"", 0},
	}

	for _, tc := range tests {
		if got := ParsePercentage(tc.raw); got != tc.want {
			t.Errorf("ParsePercentage(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("") || !IsBlank("   ") || !IsBlank("\t\n") {
		t.Error("expected blank for empty and whitespace-only input")
	}
	if IsBlank("x") {
		t.Error("expected non-blank for content")
	}
}
