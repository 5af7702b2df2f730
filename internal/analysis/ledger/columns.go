package ledger

import (
	"strings"

	"salespulse_backend/platform/apperr"
)

// NormalizeColumnName lowercases a header label and collapses internal
// whitespace, so that "Deal  Amount " and "deal amount" compare equal.
func NormalizeColumnName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ResolveColumn finds the actual header label that best matches a required
// logical field name. Rules are applied in order, first hit wins:
//
//  1. exact match after normalization
//  2. substring containment in either direction on normalized names
//  3. equality after removing all whitespace from both sides
//  4. token-wise abbreviation match ("Deal Amount" vs "deal amt")
//
// Returns ("", false) when no rule matches. Upstream sheets rename headers
// over time ("Deal Amount" vs "Deal Amt"); resolution lets the engine absorb
// that drift instead of crashing.
func ResolveColumn(required string, available []string) (string, bool) {
	target := NormalizeColumnName(required)
	if target == "" {
		return "", false
	}

	for _, col := range available {
		if NormalizeColumnName(col) == target {
			return col, true
		}
	}

	for _, col := range available {
		normalized := NormalizeColumnName(col)
		if normalized == "" {
			continue
		}
		if strings.Contains(normalized, target) || strings.Contains(target, normalized) {
			return col, true
		}
	}

	targetNoSpaces := strings.ReplaceAll(target, " ", "")
	for _, col := range available {
		if strings.ReplaceAll(NormalizeColumnName(col), " ", "") == targetNoSpaces {
			return col, true
		}
	}

	for _, col := range available {
		if abbreviationMatch(target, NormalizeColumnName(col)) {
			return col, true
		}
	}

	return "", false
}

// abbreviationMatch compares two normalized names token by token. Tokens
// match when one is an abbreviation of the other: same first letter and the
// shorter token is an in-order subsequence of the longer ("amt" / "amount").
func abbreviationMatch(a, b string) bool {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensA) != len(tokensB) {
		return false
	}

	for i := range tokensA {
		short, long := tokensA[i], tokensB[i]
		if len(short) > len(long) {
			short, long = long, short
		}
		if short == "" || short[0] != long[0] || !isSubsequence(short, long) {
			return false
		}
	}
	return true
}

func isSubsequence(short, long string) bool {
	j := 0
	for i := 0; i < len(long) && j < len(short); i++ {
		if long[i] == short[j] {
			j++
		}
	}
	return j == len(short)
}

// ColumnMapping maps required logical field names to actual header labels.
type ColumnMapping map[string]string

// MapRequiredColumns resolves every required column against the available
// headers. A required column that cannot be resolved is a hard failure:
// downstream numbers would be silently wrong otherwise.
func MapRequiredColumns(required []string, available []string) (ColumnMapping, error) {
	mapping := make(ColumnMapping, len(required))
	var missing []string

	for _, req := range required {
		matched, ok := ResolveColumn(req, available)
		if !ok {
			missing = append(missing, req)
			continue
		}
		mapping[req] = matched
	}

	if len(missing) > 0 {
		return nil, apperr.Validation("required ledger columns could not be resolved").
			WithOp("ledger.MapRequiredColumns").
			WithDetails(missing)
	}

	return mapping, nil
}
