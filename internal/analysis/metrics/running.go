package metrics

import (
	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/platform/logger"
)

// BuildRunning blends a representative's historical cumulative baseline with
// the day's freshly computed deltas. The baseline is read-only: the result
// carries the new cumulative totals, which become the next run's baseline
// once persisted externally.
//
// Rates are zero-division guarded but not clamped: a historical ledger
// recording more closes than conducted sits yields a close rate above 100,
// which is reported as-is and flagged, because masking it would hide a
// data-entry problem.
func BuildRunning(rep string, state domain.RepRunningState, daily domain.RepDailyMetrics, log *logger.Logger) domain.RunningMetricsResult {
	totals := domain.RunningTotals{
		AppointmentsBooked:    state.AppointmentsBooked + daily.AppointmentsBooked,
		AppointmentsConducted: state.AppointmentsConducted + daily.AppointmentsConducted,
		NewClientsClosed:      state.NewClientsClosed + daily.TotalNewClientsClosed,
		NewClientRevenue:      state.NewClientRevenue + daily.NewClientRevenue,
	}

	result := domain.RunningMetricsResult{
		Rep:    rep,
		Totals: totals,
	}

	if totals.AppointmentsConducted > 0 {
		result.CloseRate = float64(totals.NewClientsClosed) / float64(totals.AppointmentsConducted) * 100
	}
	if totals.NewClientsClosed > 0 {
		result.AverageDealSize = totals.NewClientRevenue / float64(totals.NewClientsClosed)
	}
	if totals.AppointmentsBooked > 0 {
		result.ShowRate = float64(totals.AppointmentsConducted) / float64(totals.AppointmentsBooked) * 100
	}

	if log != nil {
		if result.CloseRate > 100 {
			log.DataIntegrity(rep, domain.MetricRunningCloseRate, result.CloseRate)
		}
		if result.ShowRate > 100 {
			log.DataIntegrity(rep, domain.MetricRunningShowRate, result.ShowRate)
		}
	}

	return result
}
