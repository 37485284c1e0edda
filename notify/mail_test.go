package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

func fastMailer(send sendFunc) *Mailer {
	m := newMailer(send)
	m.timeout = time.Second
	m.retries = 1
	m.policy = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return m
}

func TestNilMailerIsNoop(t *testing.T) {
	var m *Mailer
	if err := m.Send(context.Background(), "s", "m"); err != nil {
		t.Fatal(err)
	}
	if NewMailer(MailgunConfig{Domain: "example.com"}) != nil {
		t.Fatal("mailer created without api key")
	}
}

func TestSendRetries(t *testing.T) {
	calls := 0
	m := fastMailer(func(ctx context.Context, subj, msg string) error {
		calls++
		if calls == 1 {
			return errors.New("temporary")
		}
		if subj != "Alert" || msg != "Object too close!" {
			t.Errorf("got %q / %q", subj, msg)
		}
		return nil
	})
	if err := m.Send(context.Background(), "Alert", "Object too close!"); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("send called %d times, want 2", calls)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	calls := 0
	m := fastMailer(func(context.Context, string, string) error {
		calls++
		return backoff.Permanent(errors.New("rejected"))
	})
	for i := 0; i < 3; i++ {
		if err := m.Send(context.Background(), "s", "m"); err == nil {
			t.Fatalf("send %d succeeded", i)
		}
	}
	err := m.Send(context.Background(), "s", "m")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want open breaker", err)
	}
	if calls != 3 {
		t.Fatalf("send called %d times, want 3", calls)
	}
}
