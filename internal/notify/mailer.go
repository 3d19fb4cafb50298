// Package notify sends e-mail about new inquiries.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/kvbuilders/site/internal/config"
	"github.com/kvbuilders/site/internal/model"
	"github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned by NewMailer when no SMTP host is set.
var ErrNotConfigured = errors.New("notify: smtp not configured")

// sender is the part of *mail.Client the Mailer uses.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer delivers owner notifications and customer confirmations over SMTP.
// The owner address is the configured From address.
type Mailer struct {
	from   string
	client sender
}

// NewMailer builds a Mailer that authenticates with PLAIN over mandatory STARTTLS.
func NewMailer(cfg config.SMTP) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("notify: smtp client: %w", err)
	}
	return &Mailer{from: cfg.From, client: client}, nil
}

// NotifyOwner sends the new-inquiry notice to the business inbox.
func (m *Mailer) NotifyOwner(ctx context.Context, inq model.Inquiry) error {
	body, err := render(ownerTmpl, newOwnerData(inq))
	if err != nil {
		return err
	}
	return m.send(ctx, m.from, OwnerSubject(inq), body)
}

// ConfirmCustomer thanks the submitter for their inquiry.
func (m *Mailer) ConfirmCustomer(ctx context.Context, inq model.Inquiry) error {
	body, err := render(customerTmpl, inq)
	if err != nil {
		return err
	}
	return m.send(ctx, inq.Email, CustomerSubject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("notify: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("notify: to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("notify: send to %s: %w", to, err)
	}
	return nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("notify: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
