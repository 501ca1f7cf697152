// Package mail delivers contact-form submissions through an external SMTP relay.
package mail

import (
	"context"
	"fmt"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/wneessen/go-mail"
)

// Submission is one contact-form entry.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Mailer delivers contact-form submissions.
type Mailer interface {
	Send(ctx context.Context, sub Submission) error
}

// SMTPMailer sends submissions through the configured SMTP relay to the
// fixed recipient list.
type SMTPMailer struct {
	client     *mail.Client
	from       string
	recipients []string
}

// NewSMTPMailer builds a mailer from SMTP configuration.
func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	recipients := cfg.ContactRecipientList()
	if len(recipients) == 0 {
		return nil, fmt.Errorf("CONTACT_RECIPIENTS is empty")
	}

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPMailer{
		client:     client,
		from:       cfg.SMTPUsername,
		recipients: recipients,
	}, nil
}

// Send delivers the submission. One retry on failure: sending carries no
// server-side state, so a duplicated email is the worst case.
func (m *SMTPMailer) Send(ctx context.Context, sub Submission) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return models.NewUpstreamError("mail relay", err)
	}
	if err := msg.To(m.recipients...); err != nil {
		return models.NewUpstreamError("mail relay", err)
	}
	if err := msg.ReplyTo(sub.Email); err != nil {
		return models.NewUpstreamError("mail relay", err)
	}
	msg.Subject(sub.Subject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"You have a new form submission from:\nName: %s\nEmail: %s\nMessage: %s\n",
		sub.Name, sub.Email, sub.Message,
	))

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if err = m.client.DialAndSendWithContext(ctx, msg); err == nil {
			observability.UpstreamRequests.WithLabelValues("mail", "success").Inc()
			return nil
		}
		if ctx.Err() != nil {
			break
		}
	}

	observability.UpstreamRequests.WithLabelValues("mail", "failure").Inc()
	return models.NewUpstreamError("mail relay", err)
}
