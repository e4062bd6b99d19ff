package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campus-portal-api/internal/domain"
)

// OTPStore keeps OTP records in process memory. Each conditional write runs
// under the mutex, which makes it atomic for a single instance. Records are
// evicted by Sweep.
type OTPStore struct {
	mu      sync.Mutex
	records map[string]domain.OTPRecord
}

func NewOTPStore() *OTPStore {
	return &OTPStore{records: make(map[string]domain.OTPRecord)}
}

func (s *OTPStore) Put(_ context.Context, rec *domain.OTPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Email] = *rec
	return nil
}

func (s *OTPStore) Get(_ context.Context, email string) (*domain.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[email]
	if !ok {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	return &rec, nil
}

func (s *OTPStore) MarkConsumed(_ context.Context, email, codeHash string, now time.Time, grant domain.VerificationGrant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[email]
	if !ok || rec.Consumed || rec.CodeHash != codeHash || now.After(rec.ExpiresAt) {
		return false, nil
	}
	consumedAt := now
	rec.Consumed = true
	rec.ConsumedAt = &consumedAt
	rec.GrantHash = grant.Hash
	rec.GrantExpiresAt = grant.ExpiresAt
	rec.GrantUsed = false
	rec.TTL = domain.EvictAt(rec.ExpiresAt, grant.ExpiresAt, time.Hour).Unix()
	s.records[email] = rec
	return true, nil
}

func (s *OTPStore) RedeemGrant(_ context.Context, email, grantHash string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[email]
	if !ok || rec.GrantHash == "" || rec.GrantHash != grantHash || rec.GrantUsed || now.After(rec.GrantExpiresAt) {
		return false, nil
	}
	rec.GrantUsed = true
	s.records[email] = rec
	return true, nil
}

// Sweep drops records whose eviction time has passed and returns how many.
func (s *OTPStore) Sweep(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for email, rec := range s.records {
		if rec.TTL > 0 && rec.TTL < now.Unix() {
			delete(s.records, email)
			n++
		}
	}
	return n, nil
}
