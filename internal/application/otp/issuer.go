package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/validate"
)

// Issued describes a code that was stored and handed to the mailer.
type Issued struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Issuer interface {
	Issue(ctx context.Context, email string) (*Issued, error)
}

type IssuerDeps struct {
	Store          Store
	Mailer         Mailer
	TTL            time.Duration
	ResendCooldown time.Duration // zero disables the cooldown
	Pepper         string
	Now            func() time.Time
}

type issuer struct {
	store          Store
	mailer         Mailer
	ttl            time.Duration
	resendCooldown time.Duration
	pepper         string
	now            func() time.Time
}

func NewIssuer(deps IssuerDeps) Issuer {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.TTL <= 0 {
		deps.TTL = 10 * time.Minute
	}
	return &issuer{
		store:          deps.Store,
		mailer:         deps.Mailer,
		ttl:            deps.TTL,
		resendCooldown: deps.ResendCooldown,
		pepper:         deps.Pepper,
		now:            deps.Now,
	}
}

// Issue stores a fresh code for email, overwriting any previous one, and
// mails it. A mail failure is reported but the stored code is kept.
func (s *issuer) Issue(ctx context.Context, email string) (*Issued, error) {
	email = domain.NormalizeEmail(email)
	if err := validate.Email(email); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrEmailRequired)
	}
	now := s.now().UTC().Truncate(time.Second)

	if s.resendCooldown > 0 {
		prev, err := s.store.Get(ctx, email)
		switch {
		case err == nil:
			if !prev.Consumed && !prev.Expired(now) && now.Before(prev.IssuedAt.Add(s.resendCooldown)) {
				return nil, fmt.Errorf("issue otp: %w", domain.ErrResendCooldown)
			}
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("load otp record: %w", err)
		}
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	salt, err := generateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	expiresAt := now.Add(s.ttl)
	rec := &domain.OTPRecord{
		Email:     email,
		CodeHash:  hashCode(code, salt, s.pepper),
		CodeSalt:  salt,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
		TTL:       domain.EvictAt(expiresAt, time.Time{}, evictionGrace).Unix(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store otp record: %w", err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.ttl.Minutes()))
	if err := s.mailer.SendEmail(ctx, email, "Your verification code", body); err != nil {
		slog.Warn("otp mail dispatch failed", "email", email, "err", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrMailDispatchFailed, err)
	}
	return &Issued{Email: email, ExpiresAt: expiresAt}, nil
}
