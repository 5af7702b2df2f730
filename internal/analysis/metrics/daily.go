// Package metrics computes daily and running performance metrics from
// normalized ledger rows and reconciliation results. Every function here is
// pure: historical state comes in as an explicit input and the fresh values
// go out as an explicit result, never through shared state.
package metrics

import (
	"time"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/internal/analysis/ledger"
)

// BuildDaily computes one representative's metrics for one business day from
// that rep's ledger rows and the day's booked/conducted counts.
//
// Classification is mutually exclusive by construction: a rebuy flag wins
// over everything, an organic flag without a rebuy flag is an organic close,
// and two blank flags are a standard new-client close.
func BuildDaily(rep string, date time.Time, rows []ledger.Row, booked, conducted int) domain.RepDailyMetrics {
	m := domain.RepDailyMetrics{
		Rep:                   rep,
		Date:                  date,
		AppointmentsBooked:    booked,
		AppointmentsConducted: conducted,
	}

	for _, row := range rows {
		switch {
		case row.IsRebuy():
			m.TotalRebuys++
			m.RebuyRevenue += row.Amount
		case row.IsOrganic():
			m.NewClientsClosedOrganic++
			m.NewClientRevenue += row.Amount
		default:
			m.NewClientsClosed++
			m.NewClientRevenue += row.Amount
		}
	}

	m.TotalNewClientsClosed = m.NewClientsClosed + m.NewClientsClosedOrganic
	m.TotalRevenue = m.NewClientRevenue + m.RebuyRevenue

	if m.TotalNewClientsClosed > 0 {
		m.AverageDealSize = m.NewClientRevenue / float64(m.TotalNewClientsClosed)
	}
	if m.AppointmentsBooked > 0 {
		m.DailyShowRate = float64(m.AppointmentsConducted) / float64(m.AppointmentsBooked) * 100
	}

	// Canceled is derived, never observed directly, and never negative.
	if diff := booked - conducted; diff > 0 {
		m.AppointmentsCanceled = diff
	}

	return m
}
