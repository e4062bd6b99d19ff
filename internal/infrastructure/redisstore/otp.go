package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "otp:"

// consumeScript flips consumed only if the stored code is the one the
// caller checked and it is still live. KEYS[1] record; ARGV code hash, now,
// grant hash, grant expiry, evict-at.
var consumeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 0 end
if redis.call('HGET', KEYS[1], 'consumed') ~= '0' then return 0 end
if redis.call('HGET', KEYS[1], 'code_hash') ~= ARGV[1] then return 0 end
if tonumber(redis.call('HGET', KEYS[1], 'expires_at')) < tonumber(ARGV[2]) then return 0 end
redis.call('HSET', KEYS[1], 'consumed', '1', 'consumed_at', ARGV[2], 'grant_hash', ARGV[3], 'grant_expires_at', ARGV[4], 'grant_used', '0')
redis.call('EXPIREAT', KEYS[1], ARGV[5])
return 1
`)

// redeemScript marks a live, unused grant as used. ARGV grant hash, now.
var redeemScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 0 end
local g = redis.call('HGET', KEYS[1], 'grant_hash')
if not g or g == '' or g ~= ARGV[1] then return 0 end
if redis.call('HGET', KEYS[1], 'grant_used') ~= '0' then return 0 end
if tonumber(redis.call('HGET', KEYS[1], 'grant_expires_at')) < tonumber(ARGV[2]) then return 0 end
redis.call('HSET', KEYS[1], 'grant_used', '1')
return 1
`)

// OTPStore keeps each record as a hash under otp:<email>. Redis key expiry
// evicts dead records.
type OTPStore struct {
	client redis.UniversalClient
}

func NewOTPStore(client redis.UniversalClient) *OTPStore {
	return &OTPStore{client: client}
}

func key(email string) string { return keyPrefix + email }

func (s *OTPStore) Put(ctx context.Context, rec *domain.OTPRecord) error {
	k := key(rec.Email)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		p.HSet(ctx, k, map[string]interface{}{
			"code_hash":        rec.CodeHash,
			"code_salt":        rec.CodeSalt,
			"issued_at":        rec.IssuedAt.Unix(),
			"expires_at":       rec.ExpiresAt.Unix(),
			"consumed":         boolField(rec.Consumed),
			"grant_hash":       rec.GrantHash,
			"grant_expires_at": rec.GrantExpiresAt.Unix(),
			"grant_used":       boolField(rec.GrantUsed),
		})
		p.ExpireAt(ctx, k, time.Unix(rec.TTL, 0))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put otp: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	fields, err := s.client.HGetAll(ctx, key(email)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get otp: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	rec := &domain.OTPRecord{
		Email:          email,
		CodeHash:       fields["code_hash"],
		CodeSalt:       fields["code_salt"],
		IssuedAt:       unixField(fields["issued_at"]),
		ExpiresAt:      unixField(fields["expires_at"]),
		Consumed:       fields["consumed"] == "1",
		GrantHash:      fields["grant_hash"],
		GrantExpiresAt: unixField(fields["grant_expires_at"]),
		GrantUsed:      fields["grant_used"] == "1",
	}
	if v, ok := fields["consumed_at"]; ok {
		t := unixField(v)
		rec.ConsumedAt = &t
	}
	if ttl, err := s.client.TTL(ctx, key(email)).Result(); err == nil && ttl > 0 {
		rec.TTL = time.Now().Add(ttl).Unix()
	}
	return rec, nil
}

func (s *OTPStore) MarkConsumed(ctx context.Context, email, codeHash string, now time.Time, grant domain.VerificationGrant) (bool, error) {
	evictAt := domain.EvictAt(time.Time{}, grant.ExpiresAt, time.Hour)
	n, err := consumeScript.Run(ctx, s.client, []string{key(email)},
		codeHash, now.Unix(), grant.Hash, grant.ExpiresAt.Unix(), evictAt.Unix()).Int()
	if err != nil {
		return false, fmt.Errorf("redis consume otp: %w", err)
	}
	return n == 1, nil
}

func (s *OTPStore) RedeemGrant(ctx context.Context, email, grantHash string, now time.Time) (bool, error) {
	n, err := redeemScript.Run(ctx, s.client, []string{key(email)}, grantHash, now.Unix()).Int()
	if err != nil {
		return false, fmt.Errorf("redis redeem grant: %w", err)
	}
	return n == 1, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func unixField(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}
