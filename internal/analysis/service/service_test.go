package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/internal/analysis/ledger"
	"salespulse_backend/internal/analysis/reconcile"
	"salespulse_backend/internal/booking"
	"salespulse_backend/internal/events"
	"salespulse_backend/internal/roster"
	"salespulse_backend/platform/logger"
)

type fakeBooking struct {
	events map[string][]booking.Event
	names  map[string]string
	err    error
}

func (f *fakeBooking) ListEvents(_ context.Context, userURI string, _, _ time.Time) ([]booking.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[userURI], nil
}

func (f *fakeBooking) InviteeName(_ context.Context, eventURI string) (string, error) {
	return f.names[eventURI], nil
}

type fakeRecordings struct {
	sessions map[string][]domain.RecordedSession
	err      error
}

func (f *fakeRecordings) ListRecordings(_ context.Context, rep, _ string, _ time.Time, _ *time.Location) ([]domain.RecordedSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[rep], nil
}

type fakeLedger struct {
	rows     []ledger.Row
	states   map[string]domain.RepRunningState
	appended int
	readErr  error
}

func (f *fakeLedger) ReadLedgerRows(_ context.Context, _ time.Time, _ *time.Location) ([]ledger.Row, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return append([]ledger.Row(nil), f.rows...), nil
}

func (f *fakeLedger) ReadRunningState(_ context.Context, _ string) (map[string]domain.RepRunningState, error) {
	return f.states, nil
}

func (f *fakeLedger) AppendDailyRows(_ context.Context, _ *domain.DailyReport) error {
	f.appended++
	return nil
}

type fakeStore struct {
	upserts   [][]domain.MetricRecord
	runs      []time.Time
	completed []string
}

func (f *fakeStore) UpsertMetrics(_ context.Context, records []domain.MetricRecord) error {
	f.upserts = append(f.upserts, records)
	return nil
}

func (f *fakeStore) CreateRun(_ context.Context, _ uuid.UUID, runDate time.Time) error {
	f.runs = append(f.runs, runDate)
	return nil
}

func (f *fakeStore) CompleteRun(_ context.Context, _ uuid.UUID, status, _ string) error {
	f.completed = append(f.completed, status)
	return nil
}

type fakeTranscripts struct {
	texts map[string]string
}

func (f *fakeTranscripts) FetchTranscript(_ context.Context, session domain.RecordedSession) (string, error) {
	text, ok := f.texts[session.ID]
	if !ok {
		return "", errors.New("no transcript")
	}
	return text, nil
}

type capturingBus struct {
	published []events.Event
	syncCalls int
}

func (b *capturingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *capturingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	b.syncCalls++
	return nil
}

func (b *capturingBus) Subscribe(string, events.Handler) {}

var testDay = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func testRoster() *roster.Roster {
	return &roster.Roster{
		Reps: []roster.Rep{
			{
				Key:               "sierra",
				DisplayName:       "Sierra Lane",
				Aliases:           []string{"Sierra"},
				BookingUserID:     "usr_sierra",
				ConferencingEmail: "sierra@example.com",
			},
			{
				Key:               "marcus",
				DisplayName:       "Marcus Webb",
				BookingUserID:     "usr_marcus",
				ConferencingEmail: "marcus@example.com",
			},
		},
		ExcludedNames: []string{"Dana"},
	}
}

func newTestService(b *fakeBooking, r *fakeRecordings, l *fakeLedger, st *fakeStore, tf *fakeTranscripts, bus events.Bus) *Service {
	log := logger.New("development")
	return New(Deps{
		Booking:    b,
		Recordings: r,
		Ledger:     l,
		Store:      st,
		Reconciler: reconcile.New(tf, 30*time.Minute, log),
		Roster:     testRoster(),
		Bus:        bus,
		Location:   time.UTC,
		Log:        log,
	})
}

func eventAt(h, m int, status string) booking.Event {
	start := time.Date(2026, 8, 28, h, m, 0, 0, time.UTC)
	return booking.Event{
		URI:       "ev-" + start.Format("1504"),
		Name:      "Demo",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Status:    status,
	}
}

func TestRunForDate(t *testing.T) {
	b := &fakeBooking{
		events: map[string][]booking.Event{
			"usr_sierra": {
				eventAt(10, 0, booking.StatusActive),
				eventAt(14, 0, booking.StatusCanceled),
			},
		},
		names: map[string]string{"ev-1000": "John Smith"},
	}
	r := &fakeRecordings{
		sessions: map[string][]domain.RecordedSession{
			"sierra": {{
				Rep: "sierra", ID: "s1", Topic: "Demo",
				StartTime:     time.Date(2026, 8, 28, 10, 10, 0, 0, time.UTC),
				HasRecordings: true,
			}},
		},
	}
	l := &fakeLedger{
		rows: []ledger.Row{
			{Rep: "Sierra", Amount: 5000},
			{Rep: "Dana", Amount: 9999}, // excluded manager
		},
		states: map[string]domain.RepRunningState{
			"Sierra Lane": {
				AppointmentsBooked:    10,
				AppointmentsConducted: 8,
				NewClientsClosed:      3,
				NewClientRevenue:      15000,
			},
		},
	}
	st := &fakeStore{}
	tf := &fakeTranscripts{texts: map[string]string{
		"s1": "Sierra: welcome\nJohn Smith: great to be here",
	}}
	bus := &capturingBus{}

	svc := newTestService(b, r, l, st, tf, bus)

	out, err := svc.RunForDate(context.Background(), testDay)
	if err != nil {
		t.Fatalf("RunForDate: %v", err)
	}

	if len(out.PerRep) != 2 {
		t.Fatalf("expected 2 rep reports, got %d", len(out.PerRep))
	}

	sierra := out.PerRep[0]
	if sierra.Daily.AppointmentsBooked != 2 {
		t.Errorf("booked = %d, want 2 (canceled events count as bookings)", sierra.Daily.AppointmentsBooked)
	}
	if sierra.Daily.AppointmentsConducted != 1 {
		t.Errorf("conducted = %d, want 1", sierra.Daily.AppointmentsConducted)
	}
	if sierra.Daily.TotalNewClientsClosed != 1 || sierra.Daily.NewClientRevenue != 5000 {
		t.Errorf("ledger metrics wrong: %+v (excluded names must not count)", sierra.Daily)
	}
	if sierra.Running.Totals.AppointmentsConducted != 9 {
		t.Errorf("running conducted = %d, want 9", sierra.Running.Totals.AppointmentsConducted)
	}

	marcus := out.PerRep[1]
	if marcus.Daily.AppointmentsBooked != 0 || marcus.Daily.TotalRevenue != 0 {
		t.Errorf("rep without data must be zero-filled: %+v", marcus.Daily)
	}

	if len(out.Records) != 28 {
		t.Errorf("expected 14 records per rep, got %d total", len(out.Records))
	}
	if len(st.upserts) != 1 {
		t.Fatalf("expected one upsert batch, got %d", len(st.upserts))
	}
	if l.appended != 1 {
		t.Errorf("expected one master-sheet write-back, got %d", l.appended)
	}
	if len(st.completed) != 1 || st.completed[0] != "completed" {
		t.Errorf("run completion = %v", st.completed)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
	ready, ok := bus.published[0].(events.DailyReportReady)
	if !ok || ready.Report.RunID != out.RunID {
		t.Errorf("published event = %#v", bus.published[0])
	}
}

func TestRunForDateDegradesOnCollaboratorFailure(t *testing.T) {
	b := &fakeBooking{err: errors.New("booking api down")}
	r := &fakeRecordings{err: errors.New("conferencing api down")}
	l := &fakeLedger{readErr: errors.New("sheets down")}
	st := &fakeStore{}
	tf := &fakeTranscripts{}

	svc := newTestService(b, r, l, st, tf, &capturingBus{})

	out, err := svc.RunForDate(context.Background(), testDay)
	if err != nil {
		t.Fatalf("collaborator failures must not abort the run: %v", err)
	}

	for _, rep := range out.PerRep {
		if rep.Daily.AppointmentsBooked != 0 || rep.Daily.TotalRevenue != 0 {
			t.Errorf("degraded rep must be zero-filled: %+v", rep.Daily)
		}
		if rep.Running.CloseRate != 0 {
			t.Errorf("no baseline and no data must yield zero rates: %+v", rep.Running)
		}
	}
	if len(out.Records) != 28 {
		t.Errorf("degraded run still persists full record set, got %d", len(out.Records))
	}
}

func TestRunForDateIsIdempotent(t *testing.T) {
	l := &fakeLedger{
		rows: []ledger.Row{{Rep: "Sierra", Amount: 5000}},
	}
	st := &fakeStore{}

	svc := newTestService(&fakeBooking{}, &fakeRecordings{}, l, st, &fakeTranscripts{}, &capturingBus{})

	if _, err := svc.RunForDate(context.Background(), testDay); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RunForDate(context.Background(), testDay); err != nil {
		t.Fatal(err)
	}

	if len(st.upserts) != 2 {
		t.Fatalf("expected two upsert batches, got %d", len(st.upserts))
	}
	if !reflect.DeepEqual(st.upserts[0], st.upserts[1]) {
		t.Error("re-running the same day must produce identical records")
	}
}

func TestRunForDateSyncPublishWaitsForHandlers(t *testing.T) {
	st := &fakeStore{}
	bus := &capturingBus{}
	log := logger.New("development")

	svc := New(Deps{
		Booking:     &fakeBooking{},
		Recordings:  &fakeRecordings{},
		Ledger:      &fakeLedger{},
		Store:       st,
		Reconciler:  reconcile.New(&fakeTranscripts{}, 30*time.Minute, log),
		Roster:      testRoster(),
		Bus:         bus,
		Location:    time.UTC,
		Log:         log,
		SyncPublish: true,
	})

	if _, err := svc.RunForDate(context.Background(), testDay); err != nil {
		t.Fatalf("RunForDate: %v", err)
	}

	if bus.syncCalls != 1 {
		t.Errorf("syncCalls = %d, want the report delivered synchronously", bus.syncCalls)
	}
	if len(bus.published) != 1 {
		t.Errorf("published = %d events, want 1", len(bus.published))
	}
}
