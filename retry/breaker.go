package retry

import (
	"fmt"
	"sync"
	"time"
)

// BreakerState identifies the circuit breaker's current state.
type BreakerState string

const (
	// StateClosed is normal operation: calls pass through.
	StateClosed BreakerState = "closed"

	// StateOpen rejects calls immediately until the cooldown elapses.
	StateOpen BreakerState = "open"

	// StateHalfOpen allows a single probing call through after the
	// cooldown to detect recovery.
	StateHalfOpen BreakerState = "half_open"
)

// CircuitOpenError is returned when the breaker is open and the cooldown
// has not elapsed. It is never retried.
type CircuitOpenError struct {
	// RetryAfter is the remaining cooldown before the next probe is allowed.
	RetryAfter time.Duration
}

// Error returns a message including the remaining cooldown.
func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker open, retry after %s", e.RetryAfter.Round(time.Second))
}

// BreakerConfig holds circuit breaker configuration parameters.
type BreakerConfig struct {
	// Threshold is the number of consecutive failures that trips the
	// breaker open (default: 5).
	Threshold int

	// Cooldown is how long the breaker stays open before allowing a
	// probing call (default: 60s).
	Cooldown time.Duration
}

// DefaultBreakerConfig returns the default breaker configuration:
// trip after 5 consecutive failures, 60 second cooldown.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Threshold: 5,
		Cooldown:  60 * time.Second,
	}
}

// Breaker is a circuit breaker preventing repeated calls to a failing
// dependency. State is scoped to the instance; share breaker state across
// call sites by sharing the instance, never through globals.
//
// All state transitions are mutex-protected so a single instance can be
// driven from concurrent goroutines without lost updates.
type Breaker struct {
	mu          sync.Mutex
	cfg         BreakerConfig
	state       BreakerState
	failures    int
	trips       uint64
	nextAttempt time.Time
	probing     bool

	// now is injectable for tests.
	now func() time.Time
}

// NewBreaker creates a circuit breaker in the closed state.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultBreakerConfig().Threshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultBreakerConfig().Cooldown
	}
	return &Breaker{
		cfg:   cfg,
		state: StateClosed,
		now:   time.Now,
	}
}

// Allow reports whether a call may proceed. When the breaker is open and
// the cooldown has not elapsed it returns a *CircuitOpenError carrying the
// remaining wait; the wrapped dependency must not be contacted. Once the
// cooldown elapses the breaker moves to half-open and admits exactly one
// probing call.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		now := b.now()
		if now.Before(b.nextAttempt) {
			return &CircuitOpenError{RetryAfter: b.nextAttempt.Sub(now)}
		}
		b.state = StateHalfOpen
		b.probing = true
		return nil
	case StateHalfOpen:
		if b.probing {
			return &CircuitOpenError{RetryAfter: b.nextAttempt.Sub(b.now())}
		}
		b.probing = true
		return nil
	}
	return nil
}

// RecordSuccess reports a successful call. Any success resets the failure
// counter to zero and closes the breaker.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.state = StateClosed
	b.probing = false
}

// RecordFailure reports a terminally failed call and returns true if the
// breaker tripped open as a result. When the consecutive failure count
// reaches the threshold the breaker trips open and the cooldown restarts.
// A half-open probe failure re-trips immediately since the counter is only
// reset on success.
func (b *Breaker) RecordFailure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.probing = false
	if b.failures >= b.cfg.Threshold {
		tripped := b.state != StateOpen
		if tripped {
			b.trips++
		}
		b.state = StateOpen
		b.nextAttempt = b.now().Add(b.cfg.Cooldown)
		return tripped
	}
	return false
}

// State returns the breaker's current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Failures returns the current consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Trips returns how many times the breaker has tripped open.
func (b *Breaker) Trips() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trips
}

// Reset zeroes the failure counter and forces the closed state.
// Intended for test isolation, not production use.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.trips = 0
	b.state = StateClosed
	b.probing = false
	b.nextAttempt = time.Time{}
}
