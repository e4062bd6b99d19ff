package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/campus-portal-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// DataEnvelope wraps a single resource or a list.
type DataEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// OTPEnvelope is returned by sendOtp and verifyOtp.
type OTPEnvelope struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message,omitempty"`
	VerificationToken string     `json:"verification_token,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	Error             string     `json:"error,omitempty"`
}

// AuthEnvelope wraps login responses.
type AuthEnvelope struct {
	Success bool            `json:"success"`
	Bearer  string          `json:"Bearer,omitempty"`
	Session *domain.Session `json:"session,omitempty"`
}

// PageEnvelope wraps cursor-paginated lists.
type PageEnvelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

func writeData(w http.ResponseWriter, status int, msg string, v interface{}) {
	writeJSON(w, status, DataEnvelope{Success: true, Message: msg, Data: v})
}

// writeServiceError maps a service error to its HTTP status. Unmapped
// errors are logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpError(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func httpError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmailRequired), errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUnverified):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrOTPNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrOTPConsumed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOTPExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrOTPMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrResendCooldown):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrMailDispatchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
