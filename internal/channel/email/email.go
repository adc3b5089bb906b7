// Package email provides the email notification channel. Delivery goes
// through a provider registry (SMTP, Resend, SES) so deployments can pick a
// backend without touching the dispatcher.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/channel"
	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/channel/email/provider"
)

// Sender implements the email channel.
type Sender struct {
	from     string
	registry *provider.Registry
}

// NewSender creates the email channel with all providers registered. The
// primary provider comes from EMAIL_PROVIDER (default "smtp"); the others
// serve as fallbacks.
func NewSender() *Sender {
	registry := provider.NewRegistry()
	registry.Register(provider.NewSMTPProvider())
	registry.Register(provider.NewResendProvider())
	registry.Register(provider.NewSESProvider())

	primary := provider.GetEnvOrDefault("EMAIL_PROVIDER", "smtp")
	if err := registry.SetPrimary(primary); err != nil {
		// Unknown name; GetPrimary will pick any configured provider.
		primary = ""
	}
	fallbacks := make([]string, 0, 2)
	for _, name := range []string{"smtp", "resend", "ses"} {
		if name != primary {
			fallbacks = append(fallbacks, name)
		}
	}
	_ = registry.SetFallback(fallbacks...)

	return &Sender{
		from:     provider.GetEnvOrDefault("EMAIL_FROM", "alerts@factory-ops.local"),
		registry: registry,
	}
}

// NewSenderWithRegistry creates an email channel over a custom registry.
// Useful for testing.
func NewSenderWithRegistry(from string, registry *provider.Registry) *Sender {
	return &Sender{
		from:     from,
		registry: registry,
	}
}

// Type returns the channel name.
func (s *Sender) Type() string {
	return channel.Email
}

// Send sends one email. The recipient must look like an address; everything
// else is the provider's problem.
func (s *Sender) Send(ctx context.Context, recipient, subject, body string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("email recipient is required")
	}
	if !strings.Contains(recipient, "@") {
		return fmt.Errorf("invalid email address format: %q", recipient)
	}

	req := &provider.EmailRequest{
		From:    s.from,
		To:      []string{recipient},
		Subject: subject,
		Body:    body,
	}
	return s.registry.Send(ctx, req)
}
