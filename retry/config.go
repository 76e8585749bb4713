// Package retry provides retry with exponential backoff, a circuit breaker,
// and request metrics for transient provider failures.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxRetries is the maximum number of retries after the initial
	// attempt (default: 3). A call makes at most MaxRetries+1 attempts.
	MaxRetries int

	// BaseDelay is the delay before the first retry (default: 1s).
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff delay (default: 30s).
	// Jitter is applied after the cap.
	MaxDelay time.Duration

	// JitterFactor adds randomness to prevent thundering herd
	// (default: 0.3). A uniform random value in [0, delay*JitterFactor]
	// is added to each delay.
	JitterFactor float64
}

// DefaultConfig returns the default retry configuration:
// 3 retries, 1 second base delay, 30 second max delay, 30% jitter.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		BaseDelay:    1 * time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.3,
	}
}

// Disabled returns a configuration that disables retries (single attempt).
func Disabled() Config {
	return Config{MaxRetries: 0}
}

// Delay calculates the backoff delay before retrying a failed attempt.
// attempt is 1-based: the first attempt is 1.
//
// Formula: min(BaseDelay * 2^(attempt-1), MaxDelay), plus a uniform random
// jitter in [0, delay*JitterFactor], rounded to the nearest millisecond.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(c.BaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.JitterFactor > 0 {
		delay += rand.Float64() * delay * c.JitterFactor
	}

	return time.Duration(delay).Round(time.Millisecond)
}
