// Package resilience wraps decoder and output plugin calls with a circuit
// breaker so a plugin wedged against a dead remote stream or a hung device
// fails fast instead of retrying indefinitely.
package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/waveterm/core/internal/metrics"
	"github.com/waveterm/core/internal/plugin"
)

// Config controls one plugin's breaker.
type Config struct {
	// ConsecutiveFailures is the number of consecutive non-transient
	// failures that trip the breaker open.
	ConsecutiveFailures uint32

	// CooldownInterval is how long the breaker stays open before allowing
	// a single half-open probe request through.
	CooldownInterval time.Duration

	// HalfOpenMaxRequests bounds how many probe requests are allowed while
	// half-open.
	HalfOpenMaxRequests uint32
}

// DefaultConfig returns a breaker tuned for plugin calls that should fail
// fast after a handful of consecutive real failures.
func DefaultConfig() Config {
	return Config{
		ConsecutiveFailures: 5,
		CooldownInterval:    10 * time.Second,
		HalfOpenMaxRequests: 1,
	}
}

// Breaker wraps a single plugin's calls returning a value of type T (e.g.
// int for Decoder.Read/Output.Write byte counts).
type Breaker[T any] struct {
	name string
	cb   *gobreaker.CircuitBreaker[T]
}

// New creates a named breaker. name is used as the metrics/logging label
// (typically the plugin's registered name).
func New[T any](name string, cfg Config) *Breaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenMaxRequests,
		Timeout:     cfg.CooldownInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// A would-block error is expected transient behavior, not a
			// plugin failure, so it must not count against the breaker.
			return err == nil || plugin.IsWouldBlock(err)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			metrics.SetPluginBreakerState(name, stateLabel(to))
			_ = from
		},
	}
	return &Breaker[T]{name: name, cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn through the breaker. When the breaker is open, fn is not
// called and the zero value of T plus gobreaker.ErrOpenState is returned.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	return b.cb.Execute(fn)
}

// State returns the breaker's current state label: "closed", "half-open",
// or "open".
func (b *Breaker[T]) State() string {
	return stateLabel(b.cb.State())
}

// Name returns the breaker's configured name.
func (b *Breaker[T]) Name() string {
	return b.name
}

func stateLabel(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
