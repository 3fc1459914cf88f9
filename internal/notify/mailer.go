package notify

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/rs/zerolog"
)

// Mailer sends one HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type MailgunMailer struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgunMailer(domain, apiKey, from string) *MailgunMailer {
	return &MailgunMailer{mg: mailgun.NewMailgun(domain, apiKey), from: from}
}

func (m *MailgunMailer) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.mg.NewMessage(m.from, subject, text, to)
	msg.SetHtml(html)

	resp, id, err := m.mg.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	zerolog.Ctx(ctx).Debug().Str("mailgun_id", id).Str("response", resp).Msg("email accepted")
	return nil
}

// LogMailer stands in for Mailgun when no API key is configured.
type LogMailer struct {
	Log zerolog.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, _, _ string) error {
	m.Log.Info().Str("to", to).Str("subject", subject).Msg("email not sent, mail delivery disabled")
	return nil
}
