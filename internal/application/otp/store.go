package otp

import (
	"context"
	"time"

	"github.com/campus-portal-api/internal/domain"
)

// Store keeps one OTP record per normalised email.
//
// Put inserts or overwrites the record. Get returns an error wrapping
// domain.ErrNotFound when no record exists. MarkConsumed is the atomic
// check-and-consume: it writes consumed=true plus the grant only if the
// record exists, is unconsumed, is unexpired at now and still carries
// codeHash. When the condition fails it reports false with a nil error.
type Store interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	MarkConsumed(ctx context.Context, email, codeHash string, now time.Time, grant domain.VerificationGrant) (bool, error)
}

// Mailer delivers the code out of band.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// evictionGrace keeps a record around briefly after it stops being usable
// so late verify calls still see Expired rather than NotFound.
const evictionGrace = time.Hour
