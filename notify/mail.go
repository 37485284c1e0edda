// Package notify sends alert mail when a station raises an alert.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	mailgun "github.com/mailgun/mailgun-go/v3"
	"github.com/sony/gobreaker"
)

// MailgunConfig is the settings needed to use Mailgun for emails.
type MailgunConfig struct {
	APIKey     string
	Domain     string
	Sender     string
	Recipients []string
}

// Enabled reports whether enough is configured to send mail.
func (mc MailgunConfig) Enabled() bool {
	return mc.APIKey != "" && mc.Domain != "" && len(mc.Recipients) > 0
}

// sendFunc delivers one message.
type sendFunc func(ctx context.Context, subj, msg string) error

// Mailer sends alert mail, retrying a few times per message and backing off
// entirely after repeated failures.
type Mailer struct {
	send    sendFunc
	breaker *gobreaker.CircuitBreaker
	retries uint64
	timeout time.Duration
	policy  func() backoff.BackOff
}

// NewMailer returns a mailer for the given config, nil if mail is not configured.
func NewMailer(mc MailgunConfig) *Mailer {
	if !mc.Enabled() {
		return nil
	}
	mg := mailgun.NewMailgun(mc.Domain, mc.APIKey)
	return newMailer(func(ctx context.Context, subj, msg string) error {
		message := mg.NewMessage(mc.Sender, subj, msg, mc.Recipients...)
		resp, id, err := mg.Send(ctx, message)
		if err != nil {
			return err
		}
		if id == "" {
			return fmt.Errorf("invalid message id: %s", resp)
		}
		return nil
	})
}

func newMailer(send sendFunc) *Mailer {
	return &Mailer{
		send: send,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "mailgun",
			Timeout: 5 * time.Minute,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("Circuit %s: %s -> %s", name, from, to)
			},
		}),
		retries: 2,
		timeout: 10 * time.Second,
		policy:  func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
}

// Send mails subj/msg to the configured recipients. A nil Mailer does nothing.
func (m *Mailer) Send(ctx context.Context, subj, msg string) error {
	if m == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	_, err := m.breaker.Execute(func() (interface{}, error) {
		bo := backoff.WithContext(backoff.WithMaxRetries(m.policy(), m.retries), ctx)
		return nil, backoff.Retry(func() error {
			return m.send(ctx, subj, msg)
		}, bo)
	})
	if errors.Is(err, gobreaker.ErrOpenState) {
		return fmt.Errorf("alert mail suppressed: %w", err)
	}
	return err
}
