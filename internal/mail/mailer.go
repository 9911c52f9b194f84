package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// DefaultSenderName is the display name used when a caller supplies none.
const DefaultSenderName = "Compliance Communications System"

// Delivery modes. Simulate is the default: the message is logged and
// recorded but never leaves the process, which keeps accidental tool runs
// harmless during development.
const (
	ModeSimulate = "simulate"
	ModeSMTP     = "smtp"
)

// Config holds email delivery settings.
type Config struct {
	Mode           string
	Recipient      string
	SMTPHost       string
	SMTPPort       int
	SenderEmail    string
	SenderPassword string
}

// Outbox records every delivered or simulated message. Implementations
// must tolerate concurrent calls; a nil outbox disables recording.
type Outbox interface {
	Record(rec OutboxRecord) error
}

// OutboxRecord is one audit entry for a notification side effect.
type OutboxRecord struct {
	Recipient string
	Subject   string
	Body      string
	Mode      string
	Kind      string
	Priority  string
	SentAt    time.Time
}

// SendResult reports the outcome of one send, shaped for direct return to
// the model as tool output.
type SendResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Recipient      string `json:"recipient"`
	Subject        string `json:"subject"`
	ContentPreview string `json:"content_preview"`
	Mode           string `json:"mode"`
}

// Sender delivers emails in either simulate or SMTP mode.
type Sender struct {
	cfg    Config
	outbox Outbox
}

// NewSender creates a sender. outbox may be nil.
func NewSender(cfg Config, outbox Outbox) *Sender {
	if cfg.Mode == "" {
		cfg.Mode = ModeSimulate
	}
	if cfg.Recipient == "" {
		cfg.Recipient = "shayon.gupta@microsoft.com"
	}
	if cfg.SenderEmail == "" {
		cfg.SenderEmail = "noreply@compliancecomms.com"
	}
	return &Sender{cfg: cfg, outbox: outbox}
}

// Recipient returns the fixed destination address.
func (s *Sender) Recipient() string {
	return s.cfg.Recipient
}

// Send delivers one email. In simulate mode the message is logged and
// recorded only. Errors from SMTP delivery are returned to the caller,
// which reports them back to the model as data.
func (s *Sender) Send(ctx context.Context, subject, content, contentType, senderName string) (SendResult, error) {
	return s.send(ctx, subject, content, contentType, senderName, "custom", "")
}

func (s *Sender) send(ctx context.Context, subject, content, contentType, senderName, kind, priority string) (SendResult, error) {
	result := SendResult{
		Recipient:      s.cfg.Recipient,
		Subject:        subject,
		ContentPreview: preview(content),
	}

	if s.cfg.Mode == ModeSimulate {
		log.Printf("mail: simulate mode, not sending")
		log.Printf("mail: to=%s from=%s <%s> subject=%q type=%s", s.cfg.Recipient, senderName, s.cfg.SenderEmail, subject, contentType)
		s.record(subject, content, kind, priority)

		result.Success = true
		result.Message = "Email simulated successfully (test mode)"
		result.Mode = "simulation"
		return result, nil
	}

	if err := s.sendSMTP(ctx, subject, content, contentType, senderName); err != nil {
		result.Message = fmt.Sprintf("Failed to send email: %v", err)
		return result, fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("mail: sent to %s", s.cfg.Recipient)
	s.record(subject, content, kind, priority)

	result.Success = true
	result.Message = "Email sent successfully"
	result.Mode = "production"
	return result, nil
}

func (s *Sender) record(subject, content, kind, priority string) {
	if s.outbox == nil {
		return
	}
	err := s.outbox.Record(OutboxRecord{
		Recipient: s.cfg.Recipient,
		Subject:   subject,
		Body:      content,
		Mode:      s.cfg.Mode,
		Kind:      kind,
		Priority:  priority,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		log.Printf("mail: failed to record outbox entry: %v", err)
	}
}

func (s *Sender) sendSMTP(ctx context.Context, subject, content, contentType, senderName string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.cfg.SMTPHost}); err != nil {
		return fmt.Errorf("STARTTLS failed: %w", err)
	}

	if s.cfg.SenderPassword != "" {
		auth := smtp.PlainAuth("", s.cfg.SenderEmail, s.cfg.SenderPassword, s.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(s.cfg.SenderEmail); err != nil {
		return err
	}
	if err := client.Rcpt(s.cfg.Recipient); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(buildMessage(s.cfg.SenderEmail, s.cfg.Recipient, senderName, subject, content, contentType))); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func buildMessage(from, to, senderName, subject, content, contentType string) string {
	mime := "text/plain"
	if strings.EqualFold(contentType, "html") {
		mime = "text/html"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", senderName, from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"utf-8\"\r\n", mime)
	b.WriteString("\r\n")
	b.WriteString(content)
	b.WriteString("\r\n")
	return b.String()
}

func preview(content string) string {
	if len(content) > 100 {
		return content[:100] + "..."
	}
	return content
}
