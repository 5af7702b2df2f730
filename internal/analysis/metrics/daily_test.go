package metrics

import (
	"testing"
	"time"

	"salespulse_backend/internal/analysis/ledger"
)

var testDate = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func TestBuildDailyClassification(t *testing.T) {
	rows := []ledger.Row{
		{Rep: "sierra", Amount: 5000},                                        // new client
		{Rep: "sierra", OrganicFlag: "x", Amount: 3000},                      // organic
		{Rep: "sierra", RebuyFlag: "yes", Amount: 1500},                      // rebuy
		{Rep: "sierra", OrganicFlag: "x", RebuyFlag: "yes", Amount: 2000},    // rebuy wins
	}

	m := BuildDaily("sierra", testDate, rows, 6, 4)

	if m.NewClientsClosed != 1 {
		t.Errorf("NewClientsClosed = %d, want 1", m.NewClientsClosed)
	}
	if m.NewClientsClosedOrganic != 1 {
		t.Errorf("NewClientsClosedOrganic = %d, want 1", m.NewClientsClosedOrganic)
	}
	if m.TotalRebuys != 2 {
		t.Errorf("TotalRebuys = %d, want 2", m.TotalRebuys)
	}
	if m.TotalNewClientsClosed != 2 {
		t.Errorf("TotalNewClientsClosed = %d, want 2", m.TotalNewClientsClosed)
	}
	if m.NewClientRevenue != 8000 {
		t.Errorf("NewClientRevenue = %v, want 8000", m.NewClientRevenue)
	}
	if m.RebuyRevenue != 3500 {
		t.Errorf("RebuyRevenue = %v, want 3500", m.RebuyRevenue)
	}
	if m.TotalRevenue != 11500 {
		t.Errorf("TotalRevenue = %v, want 11500", m.TotalRevenue)
	}
}

func TestBuildDailyDerivedValues(t *testing.T) {
	rows := []ledger.Row{
		{Rep: "sierra", Amount: 4000},
		{Rep: "sierra", OrganicFlag: "x", Amount: 2000},
	}

	m := BuildDaily("sierra", testDate, rows, 5, 4)

	if m.AverageDealSize != 3000 {
		t.Errorf("AverageDealSize = %v, want 3000", m.AverageDealSize)
	}
	if m.DailyShowRate != 80 {
		t.Errorf("DailyShowRate = %v, want 80", m.DailyShowRate)
	}
	if m.AppointmentsCanceled != 1 {
		t.Errorf("AppointmentsCanceled = %d, want 1", m.AppointmentsCanceled)
	}
}

func TestBuildDailyZeroDenominators(t *testing.T) {
	m := BuildDaily("sierra", testDate, nil, 0, 0)

	if m.AverageDealSize != 0 {
		t.Errorf("AverageDealSize = %v, want 0 with no closes", m.AverageDealSize)
	}
	if m.DailyShowRate != 0 {
		t.Errorf("DailyShowRate = %v, want 0 with no bookings", m.DailyShowRate)
	}
	if m.AppointmentsCanceled != 0 {
		t.Errorf("AppointmentsCanceled = %d, want 0", m.AppointmentsCanceled)
	}
}

func TestBuildDailyCanceledNeverNegative(t *testing.T) {
	// More conducted than booked can happen when sessions on the calendar were
	// booked outside the service window.
	m := BuildDaily("sierra", testDate, nil, 2, 3)

	if m.AppointmentsCanceled != 0 {
		t.Errorf("AppointmentsCanceled = %d, want 0", m.AppointmentsCanceled)
	}
}
