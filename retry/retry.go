package retry

import (
	"context"
	"time"
)

// Do executes fn with retry logic. Transient errors are retried up to
// cfg.MaxRetries times with exponential backoff; everything else surfaces
// immediately after a single attempt. Context cancellation is respected
// during backoff waits. Returns the result on success, or the last error
// once attempts are exhausted.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	return DoWithEvents(ctx, cfg, nil, fn)
}

// DoWithEvents is like Do but emits observability events to the given
// channel. Events are sent non-blocking; nil disables emission.
func DoWithEvents[T any](ctx context.Context, cfg Config, events chan<- Event, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	maxAttempts := cfg.MaxRetries + 1
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		emit(events, Event{Type: EventAttemptStart, Attempt: attempt, MaxAttempts: maxAttempts})

		result, err := fn()
		if err == nil {
			emit(events, Event{Type: EventSuccess, Attempt: attempt, MaxAttempts: maxAttempts})
			return result, nil
		}

		lastErr = err
		retryable := IsTransient(err)
		emit(events, Event{
			Type:        EventAttemptFailed,
			Attempt:     attempt,
			MaxAttempts: maxAttempts,
			Error:       err,
			Retryable:   retryable,
		})

		if !retryable {
			return zero, err
		}

		if attempt < maxAttempts {
			delay := cfg.Delay(attempt)
			emit(events, Event{
				Type:        EventRetrying,
				Attempt:     attempt,
				MaxAttempts: maxAttempts,
				Error:       err,
				Delay:       delay,
				Retryable:   true,
			})

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	emit(events, Event{Type: EventExhausted, Attempt: maxAttempts, MaxAttempts: maxAttempts, Error: lastErr})
	return zero, lastErr
}

// DoStream is like Do but for functions that return a channel.
// It retries the stream connection establishment, not individual chunks.
func DoStream[T any](ctx context.Context, cfg Config, fn func() (<-chan T, error)) (<-chan T, error) {
	return Do(ctx, cfg, func() (<-chan T, error) { return fn() })
}
