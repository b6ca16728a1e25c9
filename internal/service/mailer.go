package service

import (
	"context"

	"cosmetology-clinic-api/config"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// EmailMessage is one outbound transactional email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// DeliveryError carries the provider's error detail for a failed send.
// It is recorded verbatim on the reminder row and surfaced to staff on
// manual resend.
type DeliveryError struct {
	Reason string
}

func (e *DeliveryError) Error() string {
	return e.Reason
}

// Mailer dispatches rendered emails through the transactional email
// provider. Implementations perform no retry: a failed send is reported
// back and retried only by an operator-initiated manual resend.
type Mailer interface {
	// Send delivers one email and returns the provider message ID.
	// Failures are returned as *DeliveryError.
	Send(ctx context.Context, msg *EmailMessage) (string, error)
}

type resendMailer struct {
	client *resend.Client
	cfg    config.MailConfig
	log    *logrus.Logger
}

// NewResendMailer creates a Mailer backed by the Resend API.
func NewResendMailer(cfg config.MailConfig, log *logrus.Logger) Mailer {
	return &resendMailer{
		client: resend.NewClient(cfg.APIKey),
		cfg:    cfg,
		log:    log,
	}
}

func (m *resendMailer) Send(ctx context.Context, msg *EmailMessage) (string, error) {
	params := &resend.SendEmailRequest{
		From:    m.cfg.FromName + " <" + m.cfg.FromAddress + ">",
		To:      []string{msg.To},
		ReplyTo: m.cfg.ReplyTo,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		m.log.Warnf("Email delivery failed for %s: %+v", msg.To, err)
		return "", &DeliveryError{Reason: err.Error()}
	}

	m.log.Debugf("Email delivered to %s: provider_id=%s", msg.To, sent.Id)
	return sent.Id, nil
}
