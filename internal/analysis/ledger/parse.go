// Package ledger normalizes raw tabular sales-ledger data: scalar value
// parsing, fuzzy column resolution and row classification. A blank or
// unparseable cell means "no value recorded", never an error, so every parser
// here is total and returns zero on failure.
package ledger

import (
	"strconv"
	"strings"
)

var currencyReplacer = strings.NewReplacer("$", "", "₹", "", "€", "", ",", "")

// IsBlank reports whether a cell is empty or whitespace only.
func IsBlank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// HasValue reports whether a cell has content (opposite of IsBlank).
func HasValue(raw string) bool {
	return !IsBlank(raw)
}

// ParseCurrency strips currency symbols and thousands separators and returns
// the value as a float. Returns 0 for blank or unparseable input.
func ParseCurrency(raw string) float64 {
	if IsBlank(raw) {
		return 0
	}

	cleaned := strings.TrimSpace(currencyReplacer.Replace(strings.TrimSpace(raw)))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// ParseNumeric parses a plain numeric cell. Returns 0 on failure.
func ParseNumeric(raw string) float64 {
	if IsBlank(raw) {
		return 0
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

// ParsePercentage parses a numeric cell with an optional trailing percent
// sign. Returns 0 on failure.
func ParsePercentage(raw string) float64 {
	if IsBlank(raw) {
		return 0
	}

	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}
