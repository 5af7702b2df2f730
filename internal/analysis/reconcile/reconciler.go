package reconcile

import (
	"context"
	"math"
	"time"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/platform/logger"
)

// TranscriptFetcher retrieves the transcript text for a recorded session.
// Fetching is the most expensive call in the pipeline, so the reconciler
// asks for a transcript only when a candidate time-match exists.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, session domain.RecordedSession) (string, error)
}

// Reconciler decides, per scheduled event, whether a recorded session proves
// the appointment was conducted.
type Reconciler struct {
	fetcher TranscriptFetcher
	window  time.Duration
	log     *logger.Logger
}

// DefaultMatchWindow is the maximum start-time distance between a scheduled
// event and a recorded session for the session to be considered at all.
const DefaultMatchWindow = 30 * time.Minute

// New creates a Reconciler. A non-positive window falls back to
// DefaultMatchWindow.
func New(fetcher TranscriptFetcher, window time.Duration, log *logger.Logger) *Reconciler {
	if window <= 0 {
		window = DefaultMatchWindow
	}
	return &Reconciler{fetcher: fetcher, window: window, log: log}
}

// transcriptCache memoizes fetch results per session so each distinct session
// is fetched at most once per reconciliation, including failed fetches.
type transcriptCache struct {
	text map[string]string
	ok   map[string]bool
}

// Reconcile produces exactly one MatchDecision per scheduled event, in event
// order. A session is consumed (removed from further candidacy) only when a
// verified match claims it; unverified proximity leaves it available for
// later events. Events with an unknown invitee can never be verified.
// A transcript fetch failure degrades that candidate only.
func (r *Reconciler) Reconcile(ctx context.Context, events []domain.ScheduledEvent, sessions []domain.RecordedSession) []domain.MatchDecision {
	pool := make([]*domain.RecordedSession, len(sessions))
	for i := range sessions {
		pool[i] = &sessions[i]
	}

	cache := transcriptCache{
		text: make(map[string]string),
		ok:   make(map[string]bool),
	}

	decisions := make([]domain.MatchDecision, 0, len(events))
	for _, event := range events {
		decision := r.reconcileEvent(ctx, event, pool, &cache)
		if decision.Conducted() {
			pool = removeSession(pool, decision.Session.ID)
		}
		decisions = append(decisions, decision)
	}

	return decisions
}

// ConductedCount counts verified decisions.
func ConductedCount(decisions []domain.MatchDecision) int {
	count := 0
	for _, d := range decisions {
		if d.Conducted() {
			count++
		}
	}
	return count
}

func (r *Reconciler) reconcileEvent(ctx context.Context, event domain.ScheduledEvent, pool []*domain.RecordedSession, cache *transcriptCache) domain.MatchDecision {
	type candidate struct {
		session *domain.RecordedSession
		diff    float64
	}

	var inWindow []candidate
	for _, session := range pool {
		diff := math.Abs(event.StartTime.Sub(session.StartTime).Minutes())
		if diff <= r.window.Minutes() {
			inWindow = append(inWindow, candidate{session: session, diff: diff})
		}
	}

	if len(inWindow) == 0 {
		return domain.MatchDecision{Event: event, Outcome: domain.OutcomeNoMatch}
	}

	closest := inWindow[0]
	for _, c := range inWindow[1:] {
		if c.diff < closest.diff {
			closest = c
		}
	}

	// Identity verification is impossible without a resolved invitee, so the
	// event stays not-conducted no matter how close a session sits. No
	// transcript is fetched for it either.
	if !event.HasKnownInvitee() {
		return domain.MatchDecision{
			Event:       event,
			Session:     closest.session,
			DiffMinutes: round1(closest.diff),
			Outcome:     domain.OutcomeUnverified,
		}
	}

	var best *candidate
	for i := range inWindow {
		c := &inWindow[i]
		text, ok := r.transcriptFor(ctx, *c.session, cache)
		if !ok {
			continue
		}
		if !InviteeReferenced(event.InviteeName, text) {
			continue
		}
		if best == nil || c.diff < best.diff ||
			(c.diff == best.diff && c.session.ID < best.session.ID) {
			best = c
		}
	}

	if best == nil {
		return domain.MatchDecision{
			Event:       event,
			Session:     closest.session,
			DiffMinutes: round1(closest.diff),
			Outcome:     domain.OutcomeUnverified,
		}
	}

	return domain.MatchDecision{
		Event:       event,
		Session:     best.session,
		DiffMinutes: round1(best.diff),
		Outcome:     domain.OutcomeConducted,
	}
}

// transcriptFor fetches (or recalls) a session transcript. A fetch failure is
// logged and the session is treated as having no transcript for the rest of
// the reconciliation.
func (r *Reconciler) transcriptFor(ctx context.Context, session domain.RecordedSession, cache *transcriptCache) (string, bool) {
	if ok, seen := cache.ok[session.ID]; seen {
		return cache.text[session.ID], ok
	}

	text, err := r.fetcher.FetchTranscript(ctx, session)
	if err != nil {
		r.log.CollaboratorError("conferencing", "fetch_transcript", err)
		cache.ok[session.ID] = false
		return "", false
	}

	cache.text[session.ID] = text
	cache.ok[session.ID] = true
	return text, true
}

func removeSession(pool []*domain.RecordedSession, id string) []*domain.RecordedSession {
	out := pool[:0]
	for _, s := range pool {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
