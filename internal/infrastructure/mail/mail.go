// Package mail delivers plain-text notifications and verification codes.
package mail

import (
	"context"
	"fmt"

	"github.com/campus-portal-api/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// New picks the backend named by cfg.MailBackend.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.MailBackend {
	case "smtp", "":
		return NewSMTPMailer(cfg), nil
	case "resend":
		return NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
	case "log":
		return LogMailer{}, nil
	}
	return nil, fmt.Errorf("unknown mail backend %q", cfg.MailBackend)
}
