package llm

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerConfig controls when the breaker stops calling a failing provider.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Cooldown         time.Duration
	// OnStateChange is optional.
	OnStateChange func(name string, from, to string)
}

// Breaker wraps a Completer so a provider that keeps failing is skipped until the
// cooldown elapses. Callers see gobreaker.ErrOpenState in the meantime and fall
// back locally without waiting on the network.
type Breaker struct {
	next Completer
	cb   *gobreaker.CircuitBreaker[string]
}

// NewBreaker wraps next with a circuit breaker.
func NewBreaker(next Completer, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "llm"
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A caller that hangs up says nothing about the provider.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from.String(), to.String())
			}
		},
	}

	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker[string](settings)}
}

// Complete forwards to the wrapped completer through the breaker.
func (b *Breaker) Complete(ctx context.Context, messages []Message) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.Complete(ctx, messages)
	})
}

// State reports the breaker state ("closed", "half-open", "open").
func (b *Breaker) State() string {
	return b.cb.State().String()
}
