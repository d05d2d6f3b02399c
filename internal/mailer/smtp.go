// Package mailer delivers enquiry mails through an authenticated SMTP relay.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"dp-catalog/internal/enquiry"
)

// Config holds the relay settings. Username doubles as the From address.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTP sends each message over its own authenticated STARTTLS session.
type SMTP struct {
	cfg  Config
	dial func(ctx context.Context, msg *mail.Msg) error
}

func NewSMTP(cfg Config) *SMTP {
	s := &SMTP{cfg: cfg}
	s.dial = s.dialAndSend
	return s
}

// Send implements enquiry.Mailer.
func (s *SMTP) Send(ctx context.Context, m enquiry.Message) error {
	msg, err := s.build(m)
	if err != nil {
		return err
	}
	if err := s.dial(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

func (s *SMTP) build(m enquiry.Message) (*mail.Msg, error) {
	if s.cfg.Username == "" {
		return nil, fmt.Errorf("smtp: sender address not configured")
	}

	// wneessen/go-mail: Msg builds the MIME message; From/To validate addresses.
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.Username); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)
	return msg, nil
}

func (s *SMTP) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	// wneessen/go-mail: Client with SMTP AUTH PLAIN over mandatory STARTTLS
	// (Gmail submission port 587).
	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if s.cfg.Port > 0 {
		opts = append(opts, mail.WithPort(s.cfg.Port))
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
