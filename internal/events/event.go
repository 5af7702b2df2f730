package events

import (
	"salespulse_backend/internal/analysis/domain"
)

// Event names.
const (
	EventDailyReportReady = "analysis.report.ready"
	EventRunSkipped       = "analysis.run.skipped"
)

// DailyReportReady is published after a batch run has computed and persisted
// a full daily report. Notification channels subscribe to it.
type DailyReportReady struct {
	BaseEvent
	Report *domain.DailyReport
}

// EventName returns the unique event type identifier.
func (DailyReportReady) EventName() string { return EventDailyReportReady }

// RunSkipped is published when a scheduled run lands on a non-working day.
type RunSkipped struct {
	BaseEvent
	Date   string
	Reason string
}

// EventName returns the unique event type identifier.
func (RunSkipped) EventName() string { return EventRunSkipped }
