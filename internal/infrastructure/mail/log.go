package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes messages to the log instead of sending them. Local use only.
type LogMailer struct{}

func (LogMailer) SendEmail(_ context.Context, to, subject, body string) error {
	slog.Info("mail", "to", to, "subject", subject, "body", body)
	return nil
}
