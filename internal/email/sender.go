// Package email delivers the daily report over SMTP as an optional channel
// next to chat.
package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"salespulse_backend/platform/config"
	"salespulse_backend/platform/logger"
)

// Attachment is a file included with a report email, such as the CSV export.
type Attachment struct {
	FileName string
	Content  []byte
}

// Sender delivers report emails via a direct SMTP connection.
type Sender struct {
	host       string
	port       int
	username   string
	password   string
	fromName   string
	fromEmail  string
	recipients []string
	log        *logger.Logger
}

// NewSender creates an SMTP sender. Returns nil when email is not
// configured; callers treat a nil sender as a no-op channel.
func NewSender(cfg config.EmailConfig, log *logger.Logger) *Sender {
	if !cfg.IsEmailEnabled() {
		return nil
	}

	return &Sender{
		host:       cfg.GetSMTPHost(),
		port:       cfg.GetSMTPPort(),
		username:   cfg.GetSMTPUsername(),
		password:   cfg.GetSMTPPassword(),
		fromName:   cfg.GetEmailFromName(),
		fromEmail:  cfg.GetEmailFromAddress(),
		recipients: cfg.GetReportRecipients(),
		log:        log,
	}
}

// SendReport sends the rendered daily report to every configured recipient.
func (s *Sender) SendReport(ctx context.Context, subject, body string, attachments ...Attachment) error {
	if s == nil {
		return nil
	}

	var firstErr error
	for _, to := range s.recipients {
		if err := s.send(ctx, to, subject, body, attachments...); err != nil {
			s.log.CollaboratorError("email", "send_report", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// attach adds each attachment to the message. A failed attachment is logged
// and dropped so the report body still goes out.
func (s *Sender) attach(msg *gomail.Msg, attachments []Attachment) {
	for _, att := range attachments {
		if err := msg.AttachReader(att.FileName, bytes.NewReader(att.Content)); err != nil {
			s.log.CollaboratorError("email", "attach_file", err)
		}
	}
}

func (s *Sender) send(ctx context.Context, toEmail, subject, body string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	s.attach(msg, attachments)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
