// Package domain defines the entities of the appointment reconciliation and
// running-metrics engine. Every entity is constructed fresh on each batch run;
// nothing here is mutated across pipeline stages.
package domain

import (
	"encoding/json"
	"time"
)

// EventStatus is the lifecycle status of a scheduled event.
type EventStatus string

const (
	EventStatusActive   EventStatus = "active"
	EventStatusCanceled EventStatus = "canceled"
)

// UnknownInvitee marks a scheduled event whose invitee could not be resolved
// upstream. Such events can never be verified as conducted.
const UnknownInvitee = "Unknown"

// ScheduledEvent is one appointment from the booking collaborator,
// scoped to a single business day.
type ScheduledEvent struct {
	Rep         string      `validate:"required"`
	Name        string      `validate:"required"`
	StartTime   time.Time   `validate:"required"`
	EndTime     time.Time   `validate:"required,gtefield=StartTime"`
	Status      EventStatus `validate:"required,oneof=active canceled"`
	InviteeName string
}

// HasKnownInvitee reports whether the invitee identity was resolved upstream.
func (e ScheduledEvent) HasKnownInvitee() bool {
	return e.InviteeName != "" && e.InviteeName != UnknownInvitee
}

// RecordedSession is one recorded meeting from the conferencing collaborator,
// with its start time already normalized to the business timezone.
type RecordedSession struct {
	Rep           string `validate:"required"`
	ID            string `validate:"required"`
	Topic         string
	StartTime     time.Time `validate:"required"`
	HasRecordings bool
	// Raw keeps the provider payload for later transcript lookup.
	Raw json.RawMessage
}

// Transcript is the raw text of a recorded session. Speaker labels are
// derived on demand, not stored.
type Transcript struct {
	SessionID string
	Text      string
}

// MatchOutcome classifies the reconciliation result for one scheduled event.
type MatchOutcome string

const (
	// OutcomeNoMatch means no session fell inside the time window.
	OutcomeNoMatch MatchOutcome = "no_match"
	// OutcomeUnverified means a session was close in time but identity
	// verification against its transcript did not succeed.
	OutcomeUnverified MatchOutcome = "unverified"
	// OutcomeConducted means a time-matched session was verified via its
	// transcript: the appointment actually happened.
	OutcomeConducted MatchOutcome = "conducted"
)

// MatchDecision pairs a scheduled event with at most one recorded session.
type MatchDecision struct {
	Event       ScheduledEvent
	Session     *RecordedSession
	DiffMinutes float64
	Outcome     MatchOutcome
}

// Conducted reports whether the decision verified the event as conducted.
func (d MatchDecision) Conducted() bool {
	return d.Outcome == OutcomeConducted
}

// RepDailyMetrics holds one representative's freshly computed metrics for a
// single business day. Recomputed in full on every run, never incremented.
type RepDailyMetrics struct {
	Rep                     string
	Date                    time.Time
	NewClientsClosed        int
	NewClientsClosedOrganic int
	TotalNewClientsClosed   int
	TotalRebuys             int
	AppointmentsBooked      int
	AppointmentsConducted   int
	AppointmentsCanceled    int
	NewClientRevenue        float64
	RebuyRevenue            float64
	TotalRevenue            float64
	AverageDealSize         float64
	DailyShowRate           float64
}

// RepRunningState is the cumulative baseline as of before the target day,
// sourced from the external historical ledger. Read-only input.
type RepRunningState struct {
	AppointmentsBooked    int
	AppointmentsConducted int
	NewClientsClosed      int
	NewClientRevenue      float64
}

// RunningTotals are the cumulative values after the target day's deltas are
// added on top of the baseline. They become the next run's baseline once
// persisted externally.
type RunningTotals struct {
	AppointmentsBooked    int
	AppointmentsConducted int
	NewClientsClosed      int
	NewClientRevenue      float64
}

// RunningMetricsResult holds one representative's running rates.
// Rates are guarded against zero division, never negative, and never clamped:
// an inconsistent historical ledger can push a rate above 100 and the engine
// reports it as-is (flagged in logs).
type RunningMetricsResult struct {
	Rep             string
	Totals          RunningTotals
	CloseRate       float64
	AverageDealSize float64
	ShowRate        float64
}

// TeamTotals sums daily counts and revenue across the roster, and averages
// the per-rep running rates. Rates are an arithmetic mean, not re-derived
// from summed totals, so each rep's long-run performance weighs equally.
type TeamTotals struct {
	NewClientsClosed        int
	NewClientsClosedOrganic int
	TotalNewClientsClosed   int
	TotalRebuys             int
	AppointmentsBooked      int
	AppointmentsConducted   int
	AppointmentsCanceled    int
	NewClientRevenue        float64
	RebuyRevenue            float64
	TotalRevenue            float64
	AvgCloseRate            float64
	AvgAverageDealSize      float64
	AvgShowRate             float64
}

// Metric value types for persisted records.
const (
	MetricTypeCount    = "count"
	MetricTypeCurrency = "currency"
	MetricTypeRate     = "rate"
)

// Metric sources for persisted records.
const (
	SourceBooking      = "booking"
	SourceConferencing = "conferencing"
	SourceLedger       = "ledger"
	SourceDerived      = "derived"
)

// Metric names for persisted records.
const (
	MetricNewClientsClosed        = "new_clients_closed"
	MetricNewClientsClosedOrganic = "new_clients_closed_organic"
	MetricTotalNewClientsClosed   = "total_new_clients_closed"
	MetricTotalRebuys             = "total_rebuys"
	MetricNewClientRevenue        = "new_client_revenue"
	MetricRebuyRevenue            = "rebuy_revenue"
	MetricTotalRevenue            = "total_revenue"
	MetricAppointmentsBooked      = "appointments_booked"
	MetricAppointmentsConducted   = "appointments_conducted"
	MetricAppointmentsCanceled    = "appointments_canceled"
	MetricDailyShowRate           = "daily_show_rate"
	MetricRunningCloseRate        = "running_close_rate"
	MetricRunningAvgDealSize      = "running_average_deal_size"
	MetricRunningShowRate         = "running_show_rate"
)

// MetricRecord is one flat metric value keyed for idempotent upsert.
// Re-running the same day overwrites, never accumulates.
type MetricRecord struct {
	Date       time.Time `validate:"required"`
	Rep        string    `validate:"required"`
	MetricName string    `validate:"required"`
	Value      float64
	MetricType string `validate:"required,oneof=count currency rate"`
	Source     string `validate:"required,oneof=booking conferencing ledger derived"`
}

// RepReport bundles everything computed for one representative on one day.
type RepReport struct {
	Rep       string
	Daily     RepDailyMetrics
	Running   RunningMetricsResult
	Decisions []MatchDecision
}

// DailyReport is the complete output of one batch run.
type DailyReport struct {
	RunID   string
	Date    time.Time
	PerRep  []RepReport
	Team    TeamTotals
	Records []MetricRecord
}
