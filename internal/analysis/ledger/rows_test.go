package ledger

import "testing"

func TestRowsFromValues(t *testing.T) {
	headers := []string{"Date", "Demo By", "ORGANIC?", "REBUY?", "Deal Amount"}
	values := [][]string{
		{"7/1", "Sierra", "", "", "$3,500"},
		{"7/1", "Mikaela", "yes", "", "2000"},
		{"7/1", "Mike", "", "x", "$1,000"},
		{"7/1", "", "", "", "$999"},   // no rep: dropped
		{"7/1", "Sierra"},             // short row: padded
	}

	rows, err := RowsFromValues(headers, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	if !rows[0].IsNewClient() || rows[0].Amount != 3500 {
		t.Errorf("row 0 should be a new client worth 3500, got %+v", rows[0])
	}
	if !rows[1].IsOrganic() {
		t.Errorf("row 1 should be organic, got %+v", rows[1])
	}
	if !rows[2].IsRebuy() {
		t.Errorf("row 2 should be a rebuy, got %+v", rows[2])
	}
	if !rows[3].IsNewClient() || rows[3].Amount != 0 {
		t.Errorf("padded row should be a zero-amount new client, got %+v", rows[3])
	}
}

func TestFilterRep(t *testing.T) {
	rows := []Row{
		{Rep: "Sierra Campbell"},
		{Rep: "sierra"},
		{Rep: "Mike"},
	}

	got := FilterRep(rows, []string{"Sierra", "Sierra Campbell"})
	if len(got) != 2 {
		t.Fatalf("expected 2 rows for sierra variants, got %d", len(got))
	}
}
