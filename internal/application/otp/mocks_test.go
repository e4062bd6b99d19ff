package otp

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, rec *domain.OTPRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockStore) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*domain.OTPRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) MarkConsumed(ctx context.Context, email, codeHash string, now time.Time, grant domain.VerificationGrant) (bool, error) {
	args := m.Called(ctx, email, codeHash, now, grant)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// inbox records the last code mailed to each address.
type inbox struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func newInbox() *inbox { return &inbox{codes: map[string]string{}} }

func (b *inbox) SendEmail(_ context.Context, to, _, body string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.codes[to] = codePattern.FindString(body)
	return nil
}

func (b *inbox) last(to string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[to]
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
