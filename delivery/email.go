// Package delivery sends a finished digest to its reader.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/wneessen/go-mail"

	"housing-agent/utils"
)

// EmailOptions holds SMTP settings. To defaults to User.
type EmailOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

// Email delivers the digest over SMTP with implicit TLS.
type Email struct {
	opts   EmailOptions
	logger *utils.Logger
}

func NewEmail(opts EmailOptions, logger *utils.Logger) (*Email, error) {
	if opts.User == "" || opts.Password == "" {
		return nil, errors.New("email: EMAIL_USER and EMAIL_PASS are required")
	}
	if opts.To == "" {
		opts.To = opts.User
	}
	if opts.Host == "" {
		opts.Host = "smtp.gmail.com"
	}
	if opts.Port == 0 {
		opts.Port = 465
	}
	return &Email{opts: opts, logger: logger}, nil
}

// Deliver implements services.Deliverer.
func (e *Email) Deliver(ctx context.Context, subject, body string) error {
	msg, err := e.message(subject, body)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(e.opts.Host,
		mail.WithPort(e.opts.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(e.opts.User),
		mail.WithPassword(e.opts.Password),
	)
	if err != nil {
		return fmt.Errorf("email: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("email: send: %w", err)
	}

	e.logger.Info("[email] Email sent successfully to %s", e.opts.To)
	return nil
}

// message builds a multipart message with the digest as plain text and a
// minimal HTML alternative.
func (e *Email) message(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(e.opts.User); err != nil {
		return nil, fmt.Errorf("email: from: %w", err)
	}
	if err := msg.To(e.opts.To); err != nil {
		return nil, fmt.Errorf("email: to: %w", err)
	}
	msg.Subject("🏠 " + subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.AddAlternativeString(mail.TypeTextHTML, toHTML(body))
	return msg, nil
}

func toHTML(body string) string {
	return strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")
}
