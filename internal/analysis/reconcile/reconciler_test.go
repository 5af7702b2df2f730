package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/platform/logger"
)

type fakeFetcher struct {
	transcripts map[string]string
	errs        map[string]error
	calls       map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		transcripts: make(map[string]string),
		errs:        make(map[string]error),
		calls:       make(map[string]int),
	}
}

func (f *fakeFetcher) FetchTranscript(_ context.Context, session domain.RecordedSession) (string, error) {
	f.calls[session.ID]++
	if err, ok := f.errs[session.ID]; ok {
		return "", err
	}
	return f.transcripts[session.ID], nil
}

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 28, hour, min, 0, 0, time.UTC)
}

func event(name, invitee string, start time.Time) domain.ScheduledEvent {
	return domain.ScheduledEvent{
		Rep:         "sierra",
		Name:        name,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		Status:      domain.EventStatusActive,
		InviteeName: invitee,
	}
}

func session(id string, start time.Time) domain.RecordedSession {
	return domain.RecordedSession{
		Rep:           "sierra",
		ID:            id,
		Topic:         "Demo",
		StartTime:     start,
		HasRecordings: true,
	}
}

const verifiedTranscript = "Sierra: welcome\nJohn Smith: thanks for the walkthrough"
const soloTranscript = "Sierra: waiting\nSierra: still waiting"

func testReconciler(f TranscriptFetcher) *Reconciler {
	return New(f, 30*time.Minute, logger.New("development"))
}

func TestReconcileConductedWithinWindow(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.transcripts["s1"] = verifiedTranscript

	r := testReconciler(fetcher)
	decisions := r.Reconcile(context.Background(),
		[]domain.ScheduledEvent{event("Demo", "John Smith", at(10, 0))},
		[]domain.RecordedSession{session("s1", at(10, 20))},
	)

	if len(decisions) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(decisions))
	}
	d := decisions[0]
	if !d.Conducted() {
		t.Fatalf("expected conducted, got %s", d.Outcome)
	}
	if d.DiffMinutes != 20 {
		t.Errorf("expected 20 minute difference, got %v", d.DiffMinutes)
	}
	if d.Session == nil || d.Session.ID != "s1" {
		t.Error("expected session s1 to be chosen")
	}
}

func TestReconcileSingleSpeakerNotConducted(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.transcripts["s1"] = soloTranscript

	r := testReconciler(fetcher)
	decisions := r.Reconcile(context.Background(),
		[]domain.ScheduledEvent{event("Demo", "John Smith", at(10, 0))},
		[]domain.RecordedSession{session("s1", at(10, 5))},
	)

	if decisions[0].Conducted() {
		t.Error("single-speaker transcript must not verify, regardless of proximity")
	}
	if decisions[0].Outcome != domain.OutcomeUnverified {
		t.Errorf("expected unverified, got %s", decisions[0].Outcome)
	}
}

func TestReconcileOutsideWindowNoMatch(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.transcripts["s1"] = verifiedTranscript

	r := testReconciler(fetcher)
	decisions := r.Reconcile(context.Background(),
		[]domain.ScheduledEvent{event("Demo", "John Smith", at(10, 0))},
		[]domain.RecordedSession{session("s1", at(11, 0))},
	)

	if decisions[0].Outcome != domain.OutcomeNoMatch {
		t.Errorf("expected no_match for a 60-minute gap, got %s", decisions[0].Outcome)
	}
	if fetcher.calls["s1"] != 0 {
		t.Error("no transcript should be fetched without a time-window candidate")
	}
}

func TestReconcileNoDoubleConsumption(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.transcripts["s1"] = verifiedTranscript

	r := testReconciler(fetcher)
	decisions := r.Reconcile(context.Background(),
		[]domain.ScheduledEvent{
			event("Demo A", "John Smith", at(10, 0)),
			event("Demo B", "John Smith", at(10, 5)),
		},
		[]domain.RecordedSession{session("s1", at(10, 0))},
	)

	if !decisions[0].Conducted() {
		t.Fatal("first event should claim the session")
	}
	if decisions[1].Conducted() {
		t.Error("second event must not also claim the consumed session")
	}
	if decisions[1].Outcome != domain.OutcomeNoMatch {
		t.Errorf("expected no_match once the pool is empty, got %s", decisions[1].Outcome)
	}
}

func TestReconcileUnverifiedDoesNotConsume(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.transcripts["s1"] = verifiedTranscript

	r := testReconciler(fetcher)
	decisions := r.Reconcile(context.Background(),
		[]domain.ScheduledEvent{
			// First event's invitee is not in the transcript: unverified,
			// session stays in the pool for the second event.
			event("Demo A", "Maria Garcia", at(10, 0)),
			event("Demo B", "John Smith", at(10, 10)),
		},
		[]domain.RecordedSession{session("s1", at(10, 5))},
	)

	if decisions[0].Conducted() {
		t.Fatal("first event should not verify")
	}
	if !decisions[1].Conducted() {
		t.Error("session should remain available after an unverified proximity match")
	}
}

func TestReconcileUnknownInviteeNeverConducted(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.transcripts["s1"] = verifiedTranscript

	r := testReconciler(fetcher)
	decisions := r.Reconcile(context.Background(),
		[]domain.ScheduledEvent{event("Demo", domain.UnknownInvitee, at(10, 0))},
		[]domain.RecordedSession{session("s1", at(10, 1))},
	)

	if decisions[0].Conducted() {
		t.Error("unknown invitee can never be verified")
	}
	if fetcher.calls["s1"] != 0 {
		t.Error("no transcript fetch should happen for an unverifiable event")
	}
}

func TestReconcileFetchFailureDegradesCandidateOnly(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.errs["s1"] = errors.New("download failed")
	fetcher.transcripts["s2"] = verifiedTranscript

	r := testReconciler(fetcher)
	decisions := r.Reconcile(context.Background(),
		[]domain.ScheduledEvent{event("Demo", "John Smith", at(10, 0))},
		[]domain.RecordedSession{
			session("s1", at(10, 2)),
			session("s2", at(10, 20)),
		},
	)

	if !decisions[0].Conducted() {
		t.Fatal("fetch failure on one candidate must not block the other")
	}
	if decisions[0].Session.ID != "s2" {
		t.Errorf("expected fallback to s2, got %s", decisions[0].Session.ID)
	}
}

func TestReconcileTieBreakBySessionID(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.transcripts["b"] = verifiedTranscript
	fetcher.transcripts["a"] = verifiedTranscript

	r := testReconciler(fetcher)
	decisions := r.Reconcile(context.Background(),
		[]domain.ScheduledEvent{event("Demo", "John Smith", at(10, 0))},
		[]domain.RecordedSession{
			session("b", at(10, 10)),
			session("a", at(10, 10)),
		},
	)

	if decisions[0].Session.ID != "a" {
		t.Errorf("equal distances must break ties on session id, got %s", decisions[0].Session.ID)
	}
}

func TestReconcileTranscriptFetchedOncePerSession(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.transcripts["s1"] = soloTranscript

	r := testReconciler(fetcher)
	r.Reconcile(context.Background(),
		[]domain.ScheduledEvent{
			event("Demo A", "John Smith", at(10, 0)),
			event("Demo B", "Jane Doe", at(10, 10)),
		},
		[]domain.RecordedSession{session("s1", at(10, 5))},
	)

	if fetcher.calls["s1"] != 1 {
		t.Errorf("expected exactly one fetch for s1, got %d", fetcher.calls["s1"])
	}
}
