package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// SMTPProvider implements email sending via a plain SMTP relay. This is the
// default for local development (MailHog and friends) and on-prem factories
// with their own relay.
type SMTPProvider struct {
	host     string
	port     string
	user     string
	password string
}

// NewSMTPProvider creates a new SMTP email provider configured from the
// SMTP_HOST/SMTP_PORT/SMTP_USER/SMTP_PASSWORD environment variables.
func NewSMTPProvider() *SMTPProvider {
	return &SMTPProvider{
		host:     GetEnvOrDefault("SMTP_HOST", "localhost"),
		port:     GetEnvOrDefault("SMTP_PORT", "1025"),
		user:     GetEnvOrDefault("SMTP_USER", ""),
		password: GetEnvOrDefault("SMTP_PASSWORD", ""),
	}
}

// Name returns the provider name.
func (p *SMTPProvider) Name() string {
	return "smtp"
}

// IsConfigured returns true if SMTP is properly configured.
func (p *SMTPProvider) IsConfigured() bool {
	return p.host != "" && p.port != ""
}

// Send sends an email via SMTP.
func (p *SMTPProvider) Send(ctx context.Context, req *EmailRequest) error {
	if len(req.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := buildMessage(req)

	addr := fmt.Sprintf("%s:%s", p.host, p.port)
	var auth smtp.Auth
	if p.user != "" && p.password != "" {
		auth = smtp.PlainAuth("", p.user, p.password, p.host)
	}

	if err := smtp.SendMail(addr, auth, req.From, req.To, msg); err != nil {
		slog.Error("SMTP send failed",
			"error", err,
			"smtp_server", addr,
			"to", strings.Join(req.To, ", "),
		)
		return fmt.Errorf("SMTP send failed: %w", err)
	}

	slog.Info("Email sent via SMTP",
		"to", strings.Join(req.To, ", "),
		"subject", req.Subject,
		"smtp_server", addr,
	)

	return nil
}

// buildMessage assembles the RFC 822 message bytes.
func buildMessage(req *EmailRequest) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", req.From))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(req.To, ", ")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", req.Subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(req.Body)
	return []byte(sb.String())
}
