// Package whatsapp provides the WhatsApp notification channel, delivered
// through the Twilio Messages API.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/channel"
	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/shared"
)

const apiBaseURL = "https://api.twilio.com/2010-04-01"

// Sender implements the whatsapp channel over Twilio.
type Sender struct {
	client     *resty.Client
	accountSID string
	authToken  string
	fromNumber string
}

// NewSender creates the WhatsApp channel configured from the
// TWILIO_ACCOUNT_SID/TWILIO_AUTH_TOKEN/TWILIO_FROM_NUMBER environment
// variables. An unconfigured sender reports an error on every Send rather
// than failing construction, matching the other channels.
func NewSender() *Sender {
	s := &Sender{
		accountSID: shared.GetEnvOrDefault("TWILIO_ACCOUNT_SID", ""),
		authToken:  shared.GetEnvOrDefault("TWILIO_AUTH_TOKEN", ""),
		fromNumber: shared.GetEnvOrDefault("TWILIO_FROM_NUMBER", ""),
	}

	if s.accountSID == "" {
		slog.Warn("TWILIO_ACCOUNT_SID not set, WhatsApp channel will be unavailable")
		return s
	}

	s.client = resty.New().
		SetBaseURL(apiBaseURL).
		SetBasicAuth(s.accountSID, s.authToken).
		SetTimeout(10 * time.Second)

	slog.Info("WhatsApp channel initialized")
	return s
}

// NewSenderWithClient creates a sender over a custom resty client.
// Useful for testing against a local HTTP stub.
func NewSenderWithClient(client *resty.Client, accountSID, fromNumber string) *Sender {
	return &Sender{
		client:     client,
		accountSID: accountSID,
		fromNumber: fromNumber,
	}
}

// Type returns the channel name.
func (s *Sender) Type() string {
	return channel.WhatsApp
}

// Send sends one WhatsApp message. The subject is folded into the body since
// WhatsApp has no subject concept. Twilio requires the "whatsapp:" prefix on
// both numbers.
func (s *Sender) Send(ctx context.Context, recipient, subject, body string) error {
	if s.client == nil {
		return fmt.Errorf("WhatsApp channel not configured")
	}
	if recipient == "" {
		return fmt.Errorf("whatsapp recipient is required")
	}

	message := body
	if subject != "" {
		message = subject + "\n\n" + body
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": "whatsapp:" + s.fromNumber,
			"To":   "whatsapp:" + recipient,
			"Body": message,
		}).
		Post(fmt.Sprintf("/Accounts/%s/Messages.json", s.accountSID))
	if err != nil {
		return fmt.Errorf("WhatsApp send failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("WhatsApp send failed: Twilio returned %s: %s", resp.Status(), resp.String())
	}

	slog.Info("WhatsApp message sent",
		"to", recipient,
		"status", resp.Status(),
	)

	return nil
}
