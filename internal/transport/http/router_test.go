package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/campus-portal-api/internal/config"
	"github.com/campus-portal-api/internal/infrastructure/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`\b\d{6}\b`)

type captureMailer struct {
	mu   sync.Mutex
	last map[string]string
}

func (m *captureMailer) SendEmail(_ context.Context, to, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[to] = sixDigits.FindString(body)
	return nil
}

func (m *captureMailer) code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last[to]
}

func newTestRouter(t *testing.T) (http.Handler, *captureMailer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	mailer := &captureMailer{last: map[string]string{}}
	cfg := &config.Config{
		AllowedOrigins: []string{"*"},
		OTP: config.OTPConfig{
			TTL:        10 * time.Minute,
			GrantTTL:   15 * time.Minute,
			CodePepper: "test-pepper",
		},
	}
	return NewRouter(ctx, cfg, &Deps{OTPStore: memstore.NewOTPStore(), Mailer: mailer}), mailer
}

func postJSON(t *testing.T, h http.Handler, target string, v interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

func TestRouter_HealthPing(t *testing.T) {
	h, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health-check/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_OTPRoundTrip(t *testing.T) {
	h, mailer := newTestRouter(t)

	rr := postJSON(t, h, "/api/v1/sendOtp", map[string]string{"email": " Student@College.edu "})
	require.Equal(t, http.StatusOK, rr.Code)
	code := mailer.code("student@college.edu")
	require.Len(t, code, 6)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	rr = postJSON(t, h, "/api/v1/verifyOtp", map[string]string{"email": "student@college.edu", "otp": wrong})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = postJSON(t, h, "/api/v1/verifyOtp", map[string]string{"email": "student@college.edu", "otp": code})
	require.Equal(t, http.StatusOK, rr.Code)
	var out struct {
		Success           bool   `json:"success"`
		VerificationToken string `json:"verification_token"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.VerificationToken)

	rr = postJSON(t, h, "/api/v1/verifyOtp", map[string]string{"email": "student@college.edu", "otp": code})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRouter_VerifyUnknownEmail(t *testing.T) {
	h, _ := newTestRouter(t)
	rr := postJSON(t, h, "/api/v1/verifyOtp", map[string]string{"email": "nobody@college.edu", "otp": "123456"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_GatedComplaintWithoutToken(t *testing.T) {
	h, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("student_name", "Asha"))
	require.NoError(t, mw.WriteField("student_email", "asha@college.edu"))
	require.NoError(t, mw.WriteField("description", "Broken projector in room 4"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_GatedComplaintWithForeignToken(t *testing.T) {
	h, mailer := newTestRouter(t)

	require.Equal(t, http.StatusOK, postJSON(t, h, "/api/v1/sendOtp", map[string]string{"email": "other@college.edu"}).Code)
	rr := postJSON(t, h, "/api/v1/verifyOtp", map[string]string{"email": "other@college.edu", "otp": mailer.code("other@college.edu")})
	require.Equal(t, http.StatusOK, rr.Code)
	var out struct {
		VerificationToken string `json:"verification_token"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("student_name", "Asha"))
	require.NoError(t, mw.WriteField("student_email", "asha@college.edu"))
	require.NoError(t, mw.WriteField("description", "Broken projector in room 4"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set("X-Verification-Token", out.VerificationToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_DashboardClosedWithoutKeys(t *testing.T) {
	h, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = postJSON(t, h, "/api/v1/sessions/login", map[string]string{"username": "root", "password": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
