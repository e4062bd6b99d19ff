package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// OTP and verification-gate failures.
var (
	ErrEmailRequired      = errors.New("a valid email is required")
	ErrOTPNotFound        = errors.New("no active code for this email")
	ErrOTPExpired         = errors.New("code has expired")
	ErrOTPConsumed        = errors.New("code has already been used")
	ErrOTPMismatch        = errors.New("code does not match")
	ErrMailDispatchFailed = errors.New("could not deliver code by email")
	ErrResendCooldown     = errors.New("a code was sent recently, please wait before requesting another")
	ErrUnverified         = errors.New("email has not been verified for this action")
)
