package service

import (
	"salespulse_backend/internal/analysis/domain"
)

// buildRecords flattens a daily report into upsert rows, one per rep per
// metric. The (date, rep, metric name) key makes re-running a day an
// overwrite rather than an accumulation.
func buildRecords(r *domain.DailyReport) []domain.MetricRecord {
	records := make([]domain.MetricRecord, 0, len(r.PerRep)*14)

	for _, rep := range r.PerRep {
		add := func(name string, value float64, metricType, source string) {
			records = append(records, domain.MetricRecord{
				Date:       r.Date,
				Rep:        rep.Rep,
				MetricName: name,
				Value:      value,
				MetricType: metricType,
				Source:     source,
			})
		}

		d := rep.Daily
		add(domain.MetricNewClientsClosed, float64(d.NewClientsClosed), domain.MetricTypeCount, domain.SourceLedger)
		add(domain.MetricNewClientsClosedOrganic, float64(d.NewClientsClosedOrganic), domain.MetricTypeCount, domain.SourceLedger)
		add(domain.MetricTotalNewClientsClosed, float64(d.TotalNewClientsClosed), domain.MetricTypeCount, domain.SourceLedger)
		add(domain.MetricTotalRebuys, float64(d.TotalRebuys), domain.MetricTypeCount, domain.SourceLedger)
		add(domain.MetricNewClientRevenue, d.NewClientRevenue, domain.MetricTypeCurrency, domain.SourceLedger)
		add(domain.MetricRebuyRevenue, d.RebuyRevenue, domain.MetricTypeCurrency, domain.SourceLedger)
		add(domain.MetricTotalRevenue, d.TotalRevenue, domain.MetricTypeCurrency, domain.SourceLedger)
		add(domain.MetricAppointmentsBooked, float64(d.AppointmentsBooked), domain.MetricTypeCount, domain.SourceBooking)
		add(domain.MetricAppointmentsConducted, float64(d.AppointmentsConducted), domain.MetricTypeCount, domain.SourceConferencing)
		add(domain.MetricAppointmentsCanceled, float64(d.AppointmentsCanceled), domain.MetricTypeCount, domain.SourceDerived)
		add(domain.MetricDailyShowRate, d.DailyShowRate, domain.MetricTypeRate, domain.SourceDerived)

		run := rep.Running
		add(domain.MetricRunningCloseRate, run.CloseRate, domain.MetricTypeRate, domain.SourceDerived)
		add(domain.MetricRunningAvgDealSize, run.AverageDealSize, domain.MetricTypeCurrency, domain.SourceDerived)
		add(domain.MetricRunningShowRate, run.ShowRate, domain.MetricTypeRate, domain.SourceDerived)
	}

	return records
}
