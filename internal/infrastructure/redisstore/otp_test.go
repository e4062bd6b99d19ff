package redisstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/campus-portal-api/internal/domain"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*OTPStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewOTPStore(client), mr
}

func record(email string, now time.Time) *domain.OTPRecord {
	exp := now.Add(10 * time.Minute)
	return &domain.OTPRecord{
		Email:     email,
		CodeHash:  "hash-1",
		CodeSalt:  "salt",
		IssuedAt:  now,
		ExpiresAt: exp,
		TTL:       domain.EvictAt(exp, time.Time{}, time.Hour).Unix(),
	}
}

func TestPutGet(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, s.Put(ctx, record("a@x.com", now)))
	assert.True(t, mr.Exists("otp:a@x.com"))
	assert.True(t, mr.TTL("otp:a@x.com") > 0)

	got, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got.CodeHash)
	assert.Equal(t, "salt", got.CodeSalt)
	assert.Equal(t, now.Add(10*time.Minute), got.ExpiresAt)
	assert.False(t, got.Consumed)
	assert.Nil(t, got.ConsumedAt)
}

func TestGet_Missing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Get(context.Background(), "nobody@x.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPut_OverwriteResetsConsumption(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Put(ctx, record("a@x.com", now)))
	ok, err := s.MarkConsumed(ctx, "a@x.com", "hash-1", now, domain.VerificationGrant{Hash: "g", ExpiresAt: now.Add(15 * time.Minute)})
	require.NoError(t, err)
	require.True(t, ok)

	fresh := record("a@x.com", now)
	fresh.CodeHash = "hash-2"
	require.NoError(t, s.Put(ctx, fresh))

	got, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, got.Consumed)
	assert.Empty(t, got.GrantHash)
	assert.Nil(t, got.ConsumedAt)
}

func TestMarkConsumed(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Put(ctx, record("a@x.com", now)))
	grant := domain.VerificationGrant{Hash: "g", ExpiresAt: now.Add(15 * time.Minute)}

	ok, err := s.MarkConsumed(ctx, "a@x.com", "stale", now, grant)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.MarkConsumed(ctx, "a@x.com", "hash-1", now.Add(11*time.Minute), grant)
	require.NoError(t, err)
	assert.False(t, ok, "expired")

	ok, err = s.MarkConsumed(ctx, "missing@x.com", "hash-1", now, grant)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.MarkConsumed(ctx, "a@x.com", "hash-1", now, grant)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, got.Consumed)
	require.NotNil(t, got.ConsumedAt)
	assert.Equal(t, "g", got.GrantHash)
	assert.Equal(t, grant.ExpiresAt, got.GrantExpiresAt)
}

func TestMarkConsumed_Concurrent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Put(ctx, record("a@x.com", now)))
	grant := domain.VerificationGrant{Hash: "g", ExpiresAt: now.Add(15 * time.Minute)}

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := s.MarkConsumed(ctx, "a@x.com", "hash-1", now, grant); err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestRedeemGrant(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Put(ctx, record("a@x.com", now)))

	ok, err := s.RedeemGrant(ctx, "a@x.com", "", now)
	require.NoError(t, err)
	assert.False(t, ok, "no grant yet")

	grant := domain.VerificationGrant{Hash: "g", ExpiresAt: now.Add(15 * time.Minute)}
	_, err = s.MarkConsumed(ctx, "a@x.com", "hash-1", now, grant)
	require.NoError(t, err)

	ok, _ = s.RedeemGrant(ctx, "a@x.com", "g", now.Add(16*time.Minute))
	assert.False(t, ok, "expired grant")
	ok, _ = s.RedeemGrant(ctx, "a@x.com", "g", now)
	assert.True(t, ok)
	ok, _ = s.RedeemGrant(ctx, "a@x.com", "g", now)
	assert.False(t, ok, "single use")
}
