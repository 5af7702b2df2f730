package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/internal/email"
	"salespulse_backend/internal/events"
	"salespulse_backend/platform/logger"
)

type fakeChat struct {
	messages []string
	err      error
}

func (f *fakeChat) Broadcast(_ context.Context, messages []string) error {
	f.messages = append(f.messages, messages...)
	return f.err
}

type fakeEmail struct {
	subject     string
	body        string
	attachments []email.Attachment
	sent        int
}

func (f *fakeEmail) SendReport(_ context.Context, subject, body string, attachments ...email.Attachment) error {
	f.sent++
	f.subject = subject
	f.body = body
	f.attachments = attachments
	return nil
}

func testReport() *domain.DailyReport {
	return &domain.DailyReport{
		RunID: "run-1",
		Date:  time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		PerRep: []domain.RepReport{
			{Rep: "sierra", Daily: domain.RepDailyMetrics{Rep: "sierra", AppointmentsBooked: 3}},
		},
		Records: []domain.MetricRecord{
			{
				Date:       time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
				Rep:        "sierra",
				MetricName: domain.MetricAppointmentsBooked,
				Value:      3,
				MetricType: domain.MetricTypeCount,
				Source:     domain.SourceBooking,
			},
		},
	}
}

func TestHandleReportReady(t *testing.T) {
	chat := &fakeChat{}
	mail := &fakeEmail{}
	log := logger.New("development")

	m := NewModule(chat, mail, log)
	bus := events.NewInMemoryBus(log)
	m.Subscribe(bus)

	event := events.DailyReportReady{BaseEvent: events.NewBaseEvent(), Report: testReport()}
	if err := bus.PublishSync(context.Background(), event); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(chat.messages) != 2 {
		t.Errorf("expected rep + team chat messages, got %d", len(chat.messages))
	}
	if mail.sent != 1 {
		t.Fatalf("expected one email, got %d", mail.sent)
	}
	if !strings.Contains(mail.subject, "2026-08-28") {
		t.Errorf("subject = %q", mail.subject)
	}
	if len(mail.attachments) != 1 || mail.attachments[0].FileName != "daily_metrics_2026-08-28.csv" {
		t.Errorf("attachments = %+v", mail.attachments)
	}
}

func TestChatFailureDoesNotFailHandler(t *testing.T) {
	chat := &fakeChat{err: errors.New("workspace down")}
	log := logger.New("development")

	m := NewModule(chat, nil, log)
	bus := events.NewInMemoryBus(log)
	m.Subscribe(bus)

	event := events.DailyReportReady{BaseEvent: events.NewBaseEvent(), Report: testReport()}
	if err := bus.PublishSync(context.Background(), event); err != nil {
		t.Fatalf("channel failure must not propagate: %v", err)
	}
}

func TestHandleRunSkipped(t *testing.T) {
	chat := &fakeChat{}
	log := logger.New("development")

	m := NewModule(chat, nil, log)
	bus := events.NewInMemoryBus(log)
	m.Subscribe(bus)

	event := events.RunSkipped{BaseEvent: events.NewBaseEvent(), Date: "2026-08-29", Reason: "non-working day"}
	if err := bus.PublishSync(context.Background(), event); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(chat.messages) != 1 || !strings.Contains(chat.messages[0], "non-working day") {
		t.Errorf("messages = %v", chat.messages)
	}
}
