package ledger

import (
	"strings"
)

// Logical column names the daily metrics computation requires.
const (
	ColumnRep     = "Demo By"
	ColumnOrganic = "ORGANIC?"
	ColumnRebuy   = "REBUY?"
	ColumnAmount  = "Deal Amount"
)

// RequiredColumns lists every logical column the engine needs resolved before
// it will compute daily metrics.
var RequiredColumns = []string{ColumnRep, ColumnOrganic, ColumnRebuy, ColumnAmount}

// Row is one normalized sales-ledger row. Classification looks only at the
// presence of the flag cells, never their content.
type Row struct {
	Rep         string
	OrganicFlag string
	RebuyFlag   string
	Amount      float64
}

// IsNewClient reports a standard new-client close: both flags blank.
func (r Row) IsNewClient() bool {
	return IsBlank(r.OrganicFlag) && IsBlank(r.RebuyFlag)
}

// IsOrganic reports an organic new-client close: organic set, rebuy blank.
func (r Row) IsOrganic() bool {
	return HasValue(r.OrganicFlag) && IsBlank(r.RebuyFlag)
}

// IsRebuy reports a rebuy: rebuy flag set, regardless of the organic flag.
func (r Row) IsRebuy() bool {
	return HasValue(r.RebuyFlag)
}

// RowsFromValues converts a raw header row plus data rows into normalized
// ledger rows, resolving the required columns first. Short rows are padded;
// rows with a blank representative cell are dropped.
func RowsFromValues(headers []string, values [][]string) ([]Row, error) {
	mapping, err := MapRequiredColumns(RequiredColumns, headers)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	repIdx := index[mapping[ColumnRep]]
	organicIdx := index[mapping[ColumnOrganic]]
	rebuyIdx := index[mapping[ColumnRebuy]]
	amountIdx := index[mapping[ColumnAmount]]

	rows := make([]Row, 0, len(values))
	for _, raw := range values {
		rep := strings.TrimSpace(cellAt(raw, repIdx))
		if rep == "" {
			continue
		}
		rows = append(rows, Row{
			Rep:         rep,
			OrganicFlag: cellAt(raw, organicIdx),
			RebuyFlag:   cellAt(raw, rebuyIdx),
			Amount:      ParseCurrency(cellAt(raw, amountIdx)),
		})
	}

	return rows, nil
}

// FilterRep returns the subset of rows belonging to one representative,
// matched case-insensitively against any of the given name variants.
func FilterRep(rows []Row, variants []string) []Row {
	var out []Row
	for _, row := range rows {
		if matchesAnyVariant(row.Rep, variants) {
			out = append(out, row)
		}
	}
	return out
}

func matchesAnyVariant(rep string, variants []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(rep))
	for _, v := range variants {
		if normalized == strings.ToLower(strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
