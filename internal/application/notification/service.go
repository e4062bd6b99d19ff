// Package notification sends best-effort status updates to students.
// Delivery failures are logged and never fail the calling operation.
package notification

import (
	"context"
	"fmt"
	"log/slog"
)

type mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type Service interface {
	Email(ctx context.Context, to, subject, body string)
	SMS(ctx context.Context, phone, message string)
	StatusChanged(ctx context.Context, to, resource, status string)
}

type ServiceDeps struct {
	Mailer mailer
	SMS    smsSender // optional
}

type service struct {
	mailer mailer
	sms    smsSender
}

func NewService(deps ServiceDeps) Service {
	return &service{mailer: deps.Mailer, sms: deps.SMS}
}

func (s *service) Email(ctx context.Context, to, subject, body string) {
	if to == "" || s.mailer == nil {
		return
	}
	if err := s.mailer.SendEmail(ctx, to, subject, body); err != nil {
		slog.Warn("notification email failed", "to", to, "subject", subject, "err", err)
	}
}

func (s *service) SMS(ctx context.Context, phone, message string) {
	if phone == "" || s.sms == nil {
		return
	}
	if err := s.sms.SendSMS(ctx, phone, message); err != nil {
		slog.Warn("notification sms failed", "err", err)
	}
}

// StatusChanged mails the standard "your X is now Y" update.
func (s *service) StatusChanged(ctx context.Context, to, resource, status string) {
	s.Email(ctx, to,
		fmt.Sprintf("Your %s is %s", resource, status),
		fmt.Sprintf("Your %s has been %s.", resource, status))
}
