// Package service orchestrates the daily analysis run: collect scheduled
// events, recorded sessions and ledger rows, reconcile them per
// representative, compute daily and running metrics, persist and publish.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/internal/analysis/ledger"
	"salespulse_backend/internal/analysis/metrics"
	"salespulse_backend/internal/analysis/reconcile"
	"salespulse_backend/internal/analysis/repository"
	"salespulse_backend/internal/booking"
	"salespulse_backend/internal/events"
	"salespulse_backend/internal/report"
	"salespulse_backend/internal/roster"
	"salespulse_backend/platform/logger"
)

// The master sheet tab holding each rep's cumulative baseline.
const masterStateTab = "Running Totals"

// BookingSource lists scheduled events for a provider user.
type BookingSource interface {
	ListEvents(ctx context.Context, userURI string, from, to time.Time) ([]booking.Event, error)
	InviteeName(ctx context.Context, eventURI string) (string, error)
}

// RecordingSource lists recorded sessions for a provider user.
type RecordingSource interface {
	ListRecordings(ctx context.Context, rep, userEmail string, day time.Time, loc *time.Location) ([]domain.RecordedSession, error)
}

// LedgerSource reads the sales ledger and master sheet, and takes the daily
// write-back.
type LedgerSource interface {
	ReadLedgerRows(ctx context.Context, day time.Time, loc *time.Location) ([]ledger.Row, error)
	ReadRunningState(ctx context.Context, tab string) (map[string]domain.RepRunningState, error)
	AppendDailyRows(ctx context.Context, r *domain.DailyReport) error
}

// MetricsStore persists metric records and run bookkeeping.
type MetricsStore interface {
	UpsertMetrics(ctx context.Context, records []domain.MetricRecord) error
	CreateRun(ctx context.Context, id uuid.UUID, runDate time.Time) error
	CompleteRun(ctx context.Context, id uuid.UUID, status, errMsg string) error
}

// Deps bundles the service's collaborators.
type Deps struct {
	Booking    BookingSource
	Recordings RecordingSource
	Ledger     LedgerSource
	Store      MetricsStore
	Reconciler *reconcile.Reconciler
	Roster     *roster.Roster
	Bus        events.Bus
	Location   *time.Location
	CSVDir     string
	Log        *logger.Logger

	// SyncPublish delivers the report event synchronously. One-shot
	// binaries set it so notification handlers finish before the
	// process exits.
	SyncPublish bool
}

// Service runs the analysis pipeline.
type Service struct {
	deps Deps
	log  *logger.Logger
}

func New(deps Deps) *Service {
	return &Service{deps: deps, log: deps.Log}
}

// RunForDate executes the full pipeline for one business day. Representatives
// are processed concurrently; within a representative, matching is strictly
// sequential so the one-session-per-event consumption rule holds. Collaborator
// failures degrade the affected slice of data to safe defaults instead of
// aborting the run.
func (s *Service) RunForDate(ctx context.Context, date time.Time) (*domain.DailyReport, error) {
	runID := uuid.New()
	dateStr := date.Format("2006-01-02")
	s.log.RunEvent("run_started", runID.String(), dateStr)

	if err := s.deps.Store.CreateRun(ctx, runID, date); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	reportOut, err := s.run(ctx, runID, date)
	if err != nil {
		if cerr := s.deps.Store.CompleteRun(ctx, runID, repository.RunStatusFailed, err.Error()); cerr != nil {
			s.log.DatabaseError("complete_run", cerr)
		}
		s.log.RunEvent("run_failed", runID.String(), dateStr)
		return nil, err
	}

	if err := s.deps.Store.CompleteRun(ctx, runID, repository.RunStatusCompleted, ""); err != nil {
		s.log.DatabaseError("complete_run", err)
	}
	s.log.RunEvent("run_completed", runID.String(), dateStr)

	return reportOut, nil
}

func (s *Service) run(ctx context.Context, runID uuid.UUID, date time.Time) (*domain.DailyReport, error) {
	rows := s.collectLedgerRows(ctx, date)
	states := s.collectRunningStates(ctx)

	reps := s.deps.Roster.Reps
	perRep := make([]domain.RepReport, len(reps))

	g, gctx := errgroup.WithContext(ctx)
	for i, rep := range reps {
		g.Go(func() error {
			perRep[i] = s.processRep(gctx, rep, date, rows, states)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &domain.DailyReport{
		RunID:  runID.String(),
		Date:   date,
		PerRep: perRep,
		Team:   metrics.Rollup(perRep),
	}
	out.Records = buildRecords(out)

	if err := s.deps.Store.UpsertMetrics(ctx, out.Records); err != nil {
		return nil, fmt.Errorf("persist metric records: %w", err)
	}

	s.export(ctx, out)

	if s.deps.Bus != nil {
		ready := events.DailyReportReady{
			BaseEvent: events.NewBaseEvent(),
			Report:    out,
		}
		if s.deps.SyncPublish {
			if err := s.deps.Bus.PublishSync(ctx, ready); err != nil {
				s.log.CollaboratorError("notification", "publish_report", err)
			}
		} else {
			s.deps.Bus.Publish(ctx, ready)
		}
	}

	return out, nil
}

// processRep computes one representative's full report. All collaborator
// failures inside are degraded: missing events mean zero bookings, missing
// sessions mean nothing conducted, missing ledger rows mean zero sales.
func (s *Service) processRep(ctx context.Context, rep roster.Rep, date time.Time, allRows []ledger.Row, states map[string]domain.RepRunningState) domain.RepReport {
	log := s.log.WithRep(rep.Key)

	scheduled := s.collectEvents(ctx, rep, date)
	sessions := s.collectSessions(ctx, rep, date)

	active := make([]domain.ScheduledEvent, 0, len(scheduled))
	for _, ev := range scheduled {
		if ev.Status == domain.EventStatusActive {
			active = append(active, ev)
		}
	}

	decisions := s.deps.Reconciler.Reconcile(ctx, active, sessions)
	conducted := reconcile.ConductedCount(decisions)

	rows := ledger.FilterRep(allRows, rep.NameVariants())

	daily := metrics.BuildDaily(rep.Key, date, rows, len(scheduled), conducted)
	running := metrics.BuildRunning(rep.Key, s.stateFor(rep, states), daily, log)

	return domain.RepReport{
		Rep:       rep.Key,
		Daily:     daily,
		Running:   running,
		Decisions: decisions,
	}
}

// collectEvents lists the day's scheduled events for a rep and resolves
// invitee names. Canceled events are kept so bookings count correctly; an
// invitee that cannot be resolved becomes the unknown sentinel, which the
// reconciler will never verify.
func (s *Service) collectEvents(ctx context.Context, rep roster.Rep, date time.Time) []domain.ScheduledEvent {
	from, to := dayBounds(date, s.deps.Location)

	raw, err := s.deps.Booking.ListEvents(ctx, rep.BookingUserID, from, to)
	if err != nil {
		s.log.CollaboratorError("booking", "list_events", err)
		return nil
	}

	out := make([]domain.ScheduledEvent, 0, len(raw))
	for _, ev := range raw {
		status := domain.EventStatusActive
		if ev.Status == booking.StatusCanceled {
			status = domain.EventStatusCanceled
		}

		invitee := domain.UnknownInvitee
		if status == domain.EventStatusActive {
			name, err := s.deps.Booking.InviteeName(ctx, ev.URI)
			if err != nil {
				s.log.CollaboratorError("booking", "invitee_name", err)
			} else if name != "" {
				invitee = name
			}
		}

		out = append(out, domain.ScheduledEvent{
			Rep:         rep.Key,
			Name:        ev.Name,
			StartTime:   ev.StartTime.In(s.deps.Location),
			EndTime:     ev.EndTime.In(s.deps.Location),
			Status:      status,
			InviteeName: invitee,
		})
	}

	return out
}

func (s *Service) collectSessions(ctx context.Context, rep roster.Rep, date time.Time) []domain.RecordedSession {
	sessions, err := s.deps.Recordings.ListRecordings(ctx, rep.Key, rep.ConferencingEmail, date, s.deps.Location)
	if err != nil {
		s.log.CollaboratorError("conferencing", "list_recordings", err)
		return nil
	}
	return sessions
}

// collectLedgerRows reads the day's sales ledger once for the whole roster
// and drops excluded names up front.
func (s *Service) collectLedgerRows(ctx context.Context, date time.Time) []ledger.Row {
	rows, err := s.deps.Ledger.ReadLedgerRows(ctx, date, s.deps.Location)
	if err != nil {
		s.log.CollaboratorError("sheets", "read_ledger", err)
		return nil
	}

	kept := rows[:0]
	for _, row := range rows {
		if !s.deps.Roster.IsExcluded(row.Rep) {
			kept = append(kept, row)
		}
	}
	return kept
}

func (s *Service) collectRunningStates(ctx context.Context) map[string]domain.RepRunningState {
	states, err := s.deps.Ledger.ReadRunningState(ctx, masterStateTab)
	if err != nil {
		s.log.CollaboratorError("sheets", "read_running_state", err)
		return nil
	}
	return states
}

// stateFor matches a rep's baseline in the master sheet by any name variant.
// No match means a fresh rep starting at zero.
func (s *Service) stateFor(rep roster.Rep, states map[string]domain.RepRunningState) domain.RepRunningState {
	variants := rep.NameVariants()
	for name, state := range states {
		for _, v := range variants {
			if equalFold(name, v) {
				return state
			}
		}
	}
	return domain.RepRunningState{}
}

// export handles the side channels that must never fail the run: CSV file
// and the master-sheet write-back.
func (s *Service) export(ctx context.Context, out *domain.DailyReport) {
	if s.deps.CSVDir != "" {
		if path, err := report.WriteCSV(s.deps.CSVDir, out); err != nil {
			s.log.Warn("csv export failed", "error", err.Error())
		} else {
			s.log.Info("csv export written", "path", path)
		}
	}

	if err := s.deps.Ledger.AppendDailyRows(ctx, out); err != nil {
		s.log.CollaboratorError("sheets", "append_daily_rows", err)
	}
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// dayBounds converts a business day to its UTC window.
func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
