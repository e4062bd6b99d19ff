package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

const (
	resendTimeout = 10 * time.Second
	// OTP requests wait on the send, so a rate-limited call is retried
	// once after at most this long.
	resendMaxRetryWait = 2 * time.Second
)

type resendMailer struct {
	from   string
	client *resend.Client
}

func NewResendMailer(apiKey, from string) (Mailer, error) {
	m, err := newResendMailer(apiKey, from, nil)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newResendMailer(apiKey, from string, baseURL *url.URL) (*resendMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("mail from address is required")
	}
	client := resend.NewCustomClient(&http.Client{Timeout: resendTimeout}, apiKey)
	if baseURL != nil {
		client.BaseURL = baseURL
	}
	return &resendMailer{from: from, client: client}, nil
}

// SendEmail makes one more attempt when the first is rate limited. Both
// attempts carry the same idempotency key.
func (m *resendMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}
	opts := &resend.SendEmailOptions{IdempotencyKey: idempotencyKey(to, subject, body)}

	_, err := m.client.Emails.SendWithOptions(ctx, params, opts)
	wait, limited := rateLimitWait(err)
	if !limited {
		if err != nil {
			return fmt.Errorf("resend send: %w", err)
		}
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
	}
	if _, err := m.client.Emails.SendWithOptions(ctx, params, opts); err != nil {
		return fmt.Errorf("resend send after rate limit: %w", err)
	}
	return nil
}

func rateLimitWait(err error) (time.Duration, bool) {
	var rl *resend.RateLimitError
	if !errors.As(err, &rl) {
		return 0, false
	}
	wait := time.Second
	if s, convErr := strconv.Atoi(strings.TrimSpace(rl.RetryAfter)); convErr == nil && s >= 0 {
		wait = time.Duration(s) * time.Second
	}
	return min(wait, resendMaxRetryWait), true
}
