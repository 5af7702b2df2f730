// Package notification wires delivery channels to analysis events. The
// pipeline publishes a report-ready event and this module fans it out to
// chat and email; a channel failure is logged and never fails the run.
package notification

import (
	"context"
	"fmt"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/internal/email"
	"salespulse_backend/internal/events"
	"salespulse_backend/internal/report"
	"salespulse_backend/platform/logger"
)

// ChatSender posts report messages to the chat workspace.
type ChatSender interface {
	Broadcast(ctx context.Context, messages []string) error
}

// EmailSender delivers the report by email.
type EmailSender interface {
	SendReport(ctx context.Context, subject, body string, attachments ...email.Attachment) error
}

// Module subscribes the delivery channels to analysis events.
type Module struct {
	chat  ChatSender
	email EmailSender
	log   *logger.Logger
}

// NewModule creates the notification module. Either channel may be nil.
func NewModule(chat ChatSender, email EmailSender, log *logger.Logger) *Module {
	return &Module{chat: chat, email: email, log: log}
}

// Subscribe registers the event handlers on the bus.
func (m *Module) Subscribe(bus events.Bus) {
	bus.Subscribe(events.EventDailyReportReady, events.HandlerFunc(m.handleReportReady))
	bus.Subscribe(events.EventRunSkipped, events.HandlerFunc(m.handleRunSkipped))
}

func (m *Module) handleReportReady(ctx context.Context, event events.Event) error {
	ready, ok := event.(events.DailyReportReady)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, events.EventDailyReportReady)
	}

	m.sendChat(ctx, ready.Report)
	m.sendEmail(ctx, ready.Report)
	return nil
}

func (m *Module) sendChat(ctx context.Context, r *domain.DailyReport) {
	if m.chat == nil {
		return
	}
	if err := m.chat.Broadcast(ctx, report.ChatMessages(r)); err != nil {
		m.log.CollaboratorError("slack", "broadcast_report", err)
	}
}

func (m *Module) sendEmail(ctx context.Context, r *domain.DailyReport) {
	if m.email == nil {
		return
	}

	var attachments []email.Attachment
	if data, err := report.CSV(r); err == nil {
		attachments = append(attachments, email.Attachment{
			FileName: fmt.Sprintf("daily_metrics_%s.csv", r.Date.Format("2006-01-02")),
			Content:  data,
		})
	} else {
		m.log.Warn("csv render failed, sending email without attachment", "error", err.Error())
	}

	err := m.email.SendReport(ctx, report.EmailSubject(r.Date), report.EmailBody(r), attachments...)
	if err != nil {
		m.log.CollaboratorError("email", "send_report", err)
	}
}

func (m *Module) handleRunSkipped(ctx context.Context, event events.Event) error {
	skipped, ok := event.(events.RunSkipped)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, events.EventRunSkipped)
	}

	if m.chat == nil {
		return nil
	}

	msg := fmt.Sprintf("Daily analysis skipped for %s: %s", skipped.Date, skipped.Reason)
	if err := m.chat.Broadcast(ctx, []string{msg}); err != nil {
		m.log.CollaboratorError("slack", "broadcast_skip", err)
	}
	return nil
}
