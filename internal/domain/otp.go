package domain

import (
	"strings"
	"time"
)

// OTPRecord holds the single active code for an email address.
// PK: email. Only the salted hash of the code is persisted.
// Times use unixtime so conditional expressions compare numbers.
type OTPRecord struct {
	Email          string     `json:"email" dynamodbav:"email"`
	CodeHash       string     `json:"-" dynamodbav:"code_hash"`
	CodeSalt       string     `json:"-" dynamodbav:"code_salt"`
	IssuedAt       time.Time  `json:"issued_at" dynamodbav:"issued_at,unixtime"`
	ExpiresAt      time.Time  `json:"expires_at" dynamodbav:"expires_at,unixtime"`
	Consumed       bool       `json:"consumed" dynamodbav:"consumed"`
	ConsumedAt     *time.Time `json:"consumed_at,omitempty" dynamodbav:"consumed_at,omitempty,unixtime"`
	GrantHash      string     `json:"-" dynamodbav:"grant_hash"`
	GrantExpiresAt time.Time  `json:"grant_expires_at" dynamodbav:"grant_expires_at,unixtime"`
	GrantUsed      bool       `json:"grant_used" dynamodbav:"grant_used"`
	TTL            int64      `json:"-" dynamodbav:"ttl"` // eviction time (Unix seconds)
}

// Expired reports whether the code is past its expiry at now.
func (r *OTPRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// VerificationGrant is written onto the record when a code is consumed.
// Hash is the SHA-256 of the bearer token handed to the client.
type VerificationGrant struct {
	Hash      string
	ExpiresAt time.Time
}

// EvictAt is the time after which a record carries no usable state.
func EvictAt(expiresAt, grantExpiresAt time.Time, grace time.Duration) time.Time {
	t := expiresAt
	if grantExpiresAt.After(t) {
		t = grantExpiresAt
	}
	return t.Add(grace)
}

// NormalizeEmail lowercases and trims an address so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SendOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
