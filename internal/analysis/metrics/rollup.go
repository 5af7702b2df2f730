package metrics

import (
	"salespulse_backend/internal/analysis/domain"
)

// Rollup sums daily counts and revenue across the roster and averages the
// per-rep running rates. The rates are an arithmetic mean over every report
// in the batch, zero-filled reps included, not a re-derivation from summed
// cumulative totals: each rep's long-run performance contributes equally
// regardless of volume.
func Rollup(reports []domain.RepReport) domain.TeamTotals {
	var team domain.TeamTotals

	reps := 0
	for _, r := range reports {
		team.NewClientsClosed += r.Daily.NewClientsClosed
		team.NewClientsClosedOrganic += r.Daily.NewClientsClosedOrganic
		team.TotalNewClientsClosed += r.Daily.TotalNewClientsClosed
		team.TotalRebuys += r.Daily.TotalRebuys
		team.AppointmentsBooked += r.Daily.AppointmentsBooked
		team.AppointmentsConducted += r.Daily.AppointmentsConducted
		team.AppointmentsCanceled += r.Daily.AppointmentsCanceled
		team.NewClientRevenue += r.Daily.NewClientRevenue
		team.RebuyRevenue += r.Daily.RebuyRevenue
		team.TotalRevenue += r.Daily.TotalRevenue

		team.AvgCloseRate += r.Running.CloseRate
		team.AvgAverageDealSize += r.Running.AverageDealSize
		team.AvgShowRate += r.Running.ShowRate
		reps++
	}

	if reps > 0 {
		n := float64(reps)
		team.AvgCloseRate /= n
		team.AvgAverageDealSize /= n
		team.AvgShowRate /= n
	}

	return team
}
