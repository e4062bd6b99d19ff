package otp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/token"
	"github.com/campus-portal-api/internal/pkg/validate"
)

// Verification is returned once per consumed code. Token must accompany
// the next gated request for the same email.
type Verification struct {
	Email     string    `json:"email"`
	Token     string    `json:"verification_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Verifier interface {
	Verify(ctx context.Context, email, code string) (*Verification, error)
}

type VerifierDeps struct {
	Store    Store
	GrantTTL time.Duration
	Pepper   string
	Now      func() time.Time
}

type verifier struct {
	store    Store
	grantTTL time.Duration
	pepper   string
	now      func() time.Time
}

func NewVerifier(deps VerifierDeps) Verifier {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.GrantTTL <= 0 {
		deps.GrantTTL = 15 * time.Minute
	}
	return &verifier{store: deps.Store, grantTTL: deps.GrantTTL, pepper: deps.Pepper, now: deps.Now}
}

func (s *verifier) Verify(ctx context.Context, email, code string) (*Verification, error) {
	email = domain.NormalizeEmail(email)
	if err := validate.Email(email); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrEmailRequired)
	}
	code = strings.TrimSpace(code)

	rec, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := s.check(rec, code, now); err != nil {
		return nil, err
	}

	tok, err := token.New()
	if err != nil {
		return nil, err
	}
	grant := domain.VerificationGrant{
		Hash:      token.Hash(tok),
		ExpiresAt: now.Add(s.grantTTL).Truncate(time.Second),
	}
	ok, err := s.store.MarkConsumed(ctx, email, rec.CodeHash, now, grant)
	if err != nil {
		return nil, fmt.Errorf("consume otp: %w", err)
	}
	if !ok {
		// Someone consumed, reissued or outlived the code between our read
		// and the conditional write; report what the record says now.
		latest, err := s.load(ctx, email)
		if err != nil {
			return nil, err
		}
		if err := s.check(latest, code, now); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("verify otp: %w", domain.ErrOTPConsumed)
	}
	return &Verification{Email: email, Token: tok, ExpiresAt: grant.ExpiresAt}, nil
}

func (s *verifier) load(ctx context.Context, email string) (*domain.OTPRecord, error) {
	rec, err := s.store.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("verify otp: %w", domain.ErrOTPNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load otp record: %w", err)
	}
	return rec, nil
}

// check applies the failure order NotFound, Expired, AlreadyConsumed, Mismatch.
func (s *verifier) check(rec *domain.OTPRecord, code string, now time.Time) error {
	if rec.Expired(now) {
		return fmt.Errorf("verify otp: %w", domain.ErrOTPExpired)
	}
	if rec.Consumed {
		return fmt.Errorf("verify otp: %w", domain.ErrOTPConsumed)
	}
	if !hashesEqual(hashCode(code, rec.CodeSalt, s.pepper), rec.CodeHash) {
		return fmt.Errorf("verify otp: %w", domain.ErrOTPMismatch)
	}
	return nil
}
