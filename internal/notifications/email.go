// Package notifications delivers participant invitation emails off the request path.
package notifications

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/mediarating/backend/internal/config"
	"github.com/mediarating/backend/internal/models"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// Sender delivers a single invitation
type Sender interface {
	Send(ctx context.Context, inv models.Invitation) error
}

// breakerFailures is the number of consecutive SMTP failures that opens the breaker
const breakerFailures = 3

var textBody = texttemplate.Must(texttemplate.New("text").Parse(`You're invited to take part in a media survey.

Test: {{.TestName}}
{{if .TestDescription}}
Description: {{.TestDescription}}
{{end}}
Listen to or view each media file, rate it from 0 to 5 stars in half-star steps,
optionally leave a comment, then finish the test.

Access your test here:
{{.Link}}

IMPORTANT: This is a one-time use link. Once you complete the test, this link will expire.
`))

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; background-color: #f3f4f6; margin: 0; padding: 0;">
<div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; padding: 32px;">
	<h1 style="color: #1f2937;">You're invited to participate</h1>
	<h2 style="color: #1f2937;">Test: {{.TestName}}</h2>
	{{if .TestDescription}}<p style="white-space: pre-wrap;">{{.TestDescription}}</p>{{end}}
	<p>Rate each media file from 0 to 5 stars in half-star steps and optionally leave a comment.</p>
	<p style="text-align: center; margin: 32px 0;">
		<a href="{{.Link}}" style="background-color: #3b82f6; color: #ffffff; padding: 12px 28px; border-radius: 6px; text-decoration: none;">Start Test</a>
	</p>
	<p style="background-color: #fef3c7; padding: 12px; border-radius: 6px;">
		<strong>Important:</strong> This is a one-time use link. Once you complete the test, this link will expire.
	</p>
</div>
</body>
</html>
`))

type emailData struct {
	TestName        string
	TestDescription string
	Link            string
}

// InvitationSubject returns the subject line of an invitation email
func InvitationSubject(testName string) string {
	return fmt.Sprintf("Invitation: %s - Media Survey", testName)
}

// RenderInvitation renders the plain text and HTML bodies of an invitation.
// The HTML body escapes the test name and description.
func RenderInvitation(inv models.Invitation) (string, string, error) {
	data := emailData{TestName: inv.TestName, Link: inv.Link}
	if inv.TestDescription != nil {
		data.TestDescription = *inv.TestDescription
	}

	var text, html bytes.Buffer
	if err := textBody.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	if err := htmlBody.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}

	return text.String(), html.String(), nil
}

// SMTPSender sends invitations through an SMTP relay guarded by a circuit breaker
type SMTPSender struct {
	dialer   *mail.Dialer
	from     string
	fromName string
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		dialer.Timeout = cfg.Timeout
	}

	st := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}

	return &SMTPSender{
		dialer:   dialer,
		from:     cfg.From,
		fromName: cfg.FromName,
		breaker:  gobreaker.NewCircuitBreaker(st),
		logger:   logger,
	}
}

// Send sends one invitation email
func (s *SMTPSender) Send(ctx context.Context, inv models.Invitation) error {
	text, html, err := RenderInvitation(inv)
	if err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", inv.Email)
	m.SetHeader("Subject", InvitationSubject(inv.TestName))
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, s.dialer.DialAndSend(m)
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Invitation email sent", zap.String("email", inv.Email), zap.String("test", inv.TestName))
	return nil
}

// noopSender is used when no SMTP host is configured
type noopSender struct {
	logger *zap.Logger
}

func (s *noopSender) Send(ctx context.Context, inv models.Invitation) error {
	s.logger.Info("SMTP not configured, skipping invitation email",
		zap.String("email", inv.Email),
		zap.String("link", inv.Link),
	)
	return nil
}

// NewSender returns an SMTP sender, or a sender that only logs when SMTP is not configured
func NewSender(cfg config.SMTPConfig, logger *zap.Logger) Sender {
	if cfg.Host == "" {
		return &noopSender{logger: logger}
	}
	return NewSMTPSender(cfg, logger)
}
