package mail

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerSettings tunes BreakerMailer.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial send.
	OpenTimeout time.Duration
}

// DefaultBreakerSettings opens after five failures in a row for one minute.
var DefaultBreakerSettings = BreakerSettings{
	ConsecutiveFailures: 5,
	OpenTimeout:         time.Minute,
}

// BreakerMailer stops calling next while it keeps failing.
type BreakerMailer struct {
	next Mailer
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerMailer(next Mailer, settings BreakerSettings) *BreakerMailer {
	threshold := settings.ConsecutiveFailures
	if threshold == 0 {
		threshold = DefaultBreakerSettings.ConsecutiveFailures
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "mail",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &BreakerMailer{next: next, cb: cb}
}

func (b *BreakerMailer) Send(ctx context.Context, msg Message) (string, error) {
	id, err := b.cb.Execute(func() (string, error) {
		return b.next.Send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrCircuitOpen
	}
	return id, err
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *BreakerMailer) State() string {
	return b.cb.State().String()
}
