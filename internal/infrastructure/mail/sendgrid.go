package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridMailer struct {
	from   *sgmail.Email
	client *sendgrid.Client
}

func NewSendGridMailer(apiKey, from string) (Mailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	return &sendGridMailer{
		from:   sgmail.NewEmail("Campus Portal", from),
		client: sendgrid.NewSendClient(apiKey),
	}, nil
}

func (m *sendGridMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	msg := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail("", to), body, "")
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	return checkResponse(resp)
}

func checkResponse(resp *rest.Response) error {
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send failed: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
