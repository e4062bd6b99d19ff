// Package gate runs side-effecting actions only for callers holding a
// fresh verification token for the acting email.
package gate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/token"
)

// GrantStore redeems a verification grant. RedeemGrant flips grant_used
// only when the stored grant hash matches, is unused and has not expired
// at now; it reports false with a nil error otherwise.
type GrantStore interface {
	RedeemGrant(ctx context.Context, email, grantHash string, now time.Time) (bool, error)
}

// Gate guards one-shot actions behind a redeemed verification token.
type Gate interface {
	Authorize(ctx context.Context, email, tok string) error
	Do(ctx context.Context, email, tok string, action func(context.Context) error) error
}

type gate struct {
	store GrantStore
	now   func() time.Time
}

func New(store GrantStore, now func() time.Time) Gate {
	if now == nil {
		now = time.Now
	}
	return &gate{store: store, now: now}
}

// Authorize spends the token. A token can authorize a single action.
func (g *gate) Authorize(ctx context.Context, email, tok string) error {
	email = domain.NormalizeEmail(email)
	tok = strings.TrimSpace(tok)
	if email == "" || tok == "" {
		return fmt.Errorf("verification token required: %w", domain.ErrUnverified)
	}
	ok, err := g.store.RedeemGrant(ctx, email, token.Hash(tok), g.now().UTC())
	if err != nil {
		return fmt.Errorf("redeem verification grant: %w", err)
	}
	if !ok {
		return fmt.Errorf("verification token rejected: %w", domain.ErrUnverified)
	}
	return nil
}

// Do authorizes and then runs action. The action never runs when
// authorization fails.
func (g *gate) Do(ctx context.Context, email, tok string, action func(context.Context) error) error {
	if err := g.Authorize(ctx, email, tok); err != nil {
		return err
	}
	return action(ctx)
}
