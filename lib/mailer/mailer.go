package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/textproto"
	"railwatch/lib/telemetry"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("railwatch.lib.mailer")

var ErrNoRecipient = fmt.Errorf("mailer: message has no recipient")

const defaultMaxAttempts = 3

type SmtpConfig struct {
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Address  string `json:"address"`
	Password string `json:"password"`
	FromName string `json:"from_name"`
	// skips STARTTLS, only meant for local test servers
	DisableTLS bool `json:"disable_tls"`
	// total send attempts, defaults to 3
	MaxAttempts int `json:"max_attempts"`
}

type Message struct {
	To      []string
	Subject string
	Text    string
}

// Sender is what the alerting code depends on, Mailer is the SMTP implementation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Mailer struct {
	config       SmtpConfig
	initialDelay time.Duration
}

func New(config SmtpConfig) Mailer {
	if config.Port == 0 {
		config.Port = 587
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaultMaxAttempts
	}
	return Mailer{config: config, initialDelay: time.Second}
}

func (m Mailer) addr() string {
	return fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)
}

func (m Mailer) from() string {
	if m.config.FromName == "" {
		return m.config.Address
	}
	return fmt.Sprintf("%s <%s>", m.config.FromName, m.config.Address)
}

func (m Mailer) auth() smtp.Auth {
	if m.config.Password == "" {
		return nil
	}
	return smtp.PlainAuth("", m.config.Address, m.config.Password, m.config.Server)
}

func (m Mailer) build(msg Message) *email.Email {
	mail := email.NewEmail()
	mail.From = m.from()
	mail.To = msg.To
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Text)
	return mail
}

func (m Mailer) sendOnce(ctx context.Context, mail *email.Email) error {
	send := func(auth smtp.Auth) error {
		if m.config.DisableTLS {
			return mail.Send(m.addr(), auth)
		}
		return mail.SendWithStartTLS(m.addr(), auth, &tls.Config{ServerName: m.config.Server})
	}

	err := send(m.auth())
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		slog.WarnContext(ctx, "smtp server does not support auth, sending without it", "server", m.config.Server)
		err = send(nil)
	}
	return err
}

// permanent reports whether retrying cannot help, 5xx replies are final.
func permanent(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code >= 500
	}
	return false
}

func (m Mailer) Send(ctx context.Context, msg Message) error {
	ctx, span := tracer.Start(ctx, "Send")
	defer span.End()

	if len(msg.To) == 0 || msg.To[0] == "" {
		span.SetStatus(codes.Error, ErrNoRecipient.Error())
		return ErrNoRecipient
	}
	span.SetAttributes(
		attribute.StringSlice("to", msg.To),
		attribute.String("subject", msg.Subject),
	)

	mail := m.build(msg)

	maxAttempts := m.config.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = m.initialDelay
	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		err := m.sendOnce(ctx, mail)
		if err == nil {
			return nil
		}
		if permanent(err) {
			return backoff.Permanent(err)
		}
		slog.WarnContext(ctx, "send email", "attempt", attempts, "err", err)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(maxAttempts-1)), ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return fmt.Errorf("send email to %s: %w", strings.Join(msg.To, ", "), err)
	}

	slog.InfoContext(ctx, "email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
