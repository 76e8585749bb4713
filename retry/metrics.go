package retry

import "sync"

// Snapshot is a point-in-time copy of request metrics.
type Snapshot struct {
	// TotalRequests counts calls that reached the wrapped dependency,
	// regardless of how many internal attempts each made. Calls rejected
	// by an open circuit breaker are not counted.
	TotalRequests uint64
	// SuccessfulRequests counts calls with a successful terminal outcome.
	SuccessfulRequests uint64
	// FailedRequests counts calls with a failed terminal outcome.
	FailedRequests uint64
	// RetriedRequests counts individual retry attempts, not calls.
	RetriedRequests uint64
	// CircuitTrips counts transitions into the open state.
	CircuitTrips uint64
}

// SuccessRate returns the percentage of successful requests, or 100 when
// no requests have been made.
func (s Snapshot) SuccessRate() float64 {
	if s.TotalRequests == 0 {
		return 100
	}
	return float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100
}

// Metrics accumulates request counters over the lifetime of a client.
// Counters are monotonically non-decreasing until an explicit Reset.
type Metrics struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewMetrics creates a zeroed metrics accumulator.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordStart increments the total request counter.
func (m *Metrics) RecordStart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.TotalRequests++
}

// RecordSuccess increments the successful request counter.
func (m *Metrics) RecordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.SuccessfulRequests++
}

// RecordFailure increments the failed request counter.
func (m *Metrics) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.FailedRequests++
}

// RecordRetry increments the retried request counter. Called once per
// retry attempt, not per call.
func (m *Metrics) RecordRetry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.RetriedRequests++
}

// RecordTrip increments the circuit trip counter.
func (m *Metrics) RecordTrip() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.CircuitTrips++
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Reset zeroes all counters. Intended for test isolation.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = Snapshot{}
}
