package http

import (
	"context"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/campus-portal-api/internal/infrastructure/jwt"
	"github.com/campus-portal-api/internal/infrastructure/mail"
	s3infra "github.com/campus-portal-api/internal/infrastructure/s3"
	"github.com/campus-portal-api/internal/infrastructure/sns"
)

// OTPStore is what the router requires from an OTP backend: the issuer and
// verifier side plus grant redemption for the verification gate. Every
// backend (dynamo, redis, postgres, mongo, memory) satisfies it.
type OTPStore interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	MarkConsumed(ctx context.Context, email, codeHash string, now time.Time, grant domain.VerificationGrant) (bool, error)
	RedeemGrant(ctx context.Context, email, grantHash string, now time.Time) (bool, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AdminRepo       *dynamo.AdminRepo
	SessionRepo     *dynamo.SessionRepo
	FileRepo        *dynamo.FileRepo
	ApplicationRepo *dynamo.ApplicationRepo
	CandidateRepo   *dynamo.CandidateRepo
	FacilityRepo    *dynamo.FacilityRepo
	BookingRepo     *dynamo.BookingRepo
	LeaveRepo       *dynamo.LeaveRepo
	ComplaintRepo   *dynamo.ComplaintRepo
	BudgetRepo      *dynamo.BudgetRepo
	CheaterRepo     *dynamo.CheaterRepo
	OTPStore        OTPStore
	S3Store         *s3infra.Store
	Mailer          mail.Mailer
	SMSSender       sns.SMSSender // nil disables SMS
	JWTProvider     *jwtinfra.Provider
}
