// Package mail sends transactional email over SMTP, or logs it in
// development.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ramenshop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is one outgoing email
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	// Text is the plain-text alternative; optional
	Text string
}

// Validate checks the fields every transport needs
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return errors.New("mail: no recipients")
	}
	for _, to := range m.To {
		if !strings.Contains(to, "@") {
			return fmt.Errorf("mail: invalid recipient %q", to)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("mail: empty subject")
	}
	if m.HTML == "" && m.Text == "" {
		return errors.New("mail: empty body")
	}
	return nil
}

// Mailer sends messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// sender is the part of gomail.Dialer the SMTP mailer uses
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers through an SMTP relay
type SMTPMailer struct {
	dialer   sender
	from     string
	fromName string
	logger   *zap.Logger
}

// NewSMTPMailer creates a mailer for cfg. Port 465 uses implicit TLS;
// other ports upgrade with STARTTLS when the server offers it.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger,
	}
}

// Send builds a MIME message and dials the relay. gomail has no context
// support, so cancellation is only checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	gm.SetHeader("To", msg.To...)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	switch {
	case msg.Text != "" && msg.HTML != "":
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		gm.SetBody("text/html", msg.HTML)
	default:
		gm.SetBody("text/plain", msg.Text)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send mail %q: %w", msg.Subject, err)
	}
	m.logger.Info("Mail sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// ConsoleMailer logs messages instead of sending them
type ConsoleMailer struct {
	logger *zap.Logger
}

// NewConsoleMailer creates a ConsoleMailer
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

// Send logs msg at info level
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	m.logger.Info("Mail (console transport)",
		zap.Strings("to", msg.To),
		zap.String("reply_to", msg.ReplyTo),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)),
		zap.String("text", msg.Text),
	)
	return nil
}

// NewMailer picks the transport named by cfg.Driver
func NewMailer(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Driver {
	case "smtp":
		if cfg.Host == "" {
			return nil, errors.New("mail: smtp driver requires a host")
		}
		return NewSMTPMailer(cfg, logger), nil
	case "console", "":
		return NewConsoleMailer(logger), nil
	default:
		return nil, fmt.Errorf("mail: unknown driver %q", cfg.Driver)
	}
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = (*ConsoleMailer)(nil)
)
