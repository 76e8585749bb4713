package retry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	t.Run("counters accumulate", func(t *testing.T) {
		m := NewMetrics()
		m.RecordStart()
		m.RecordStart()
		m.RecordSuccess()
		m.RecordFailure()
		m.RecordRetry()
		m.RecordRetry()
		m.RecordRetry()
		m.RecordTrip()

		snap := m.Snapshot()
		assert.Equal(t, uint64(2), snap.TotalRequests)
		assert.Equal(t, uint64(1), snap.SuccessfulRequests)
		assert.Equal(t, uint64(1), snap.FailedRequests)
		assert.Equal(t, uint64(3), snap.RetriedRequests)
		assert.Equal(t, uint64(1), snap.CircuitTrips)
	})

	t.Run("reset zeroes everything", func(t *testing.T) {
		m := NewMetrics()
		m.RecordStart()
		m.RecordFailure()
		m.Reset()
		assert.Equal(t, Snapshot{}, m.Snapshot())
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		m := NewMetrics()
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.RecordStart()
				m.RecordSuccess()
			}()
		}
		wg.Wait()

		snap := m.Snapshot()
		assert.Equal(t, uint64(100), snap.TotalRequests)
		assert.Equal(t, uint64(100), snap.SuccessfulRequests)
	})
}

func TestSnapshotSuccessRate(t *testing.T) {
	t.Run("100 percent when no requests", func(t *testing.T) {
		assert.Equal(t, float64(100), Snapshot{}.SuccessRate())
	})

	t.Run("proportional otherwise", func(t *testing.T) {
		snap := Snapshot{TotalRequests: 4, SuccessfulRequests: 3}
		assert.Equal(t, float64(75), snap.SuccessRate())
	})

	t.Run("zero when all failed", func(t *testing.T) {
		snap := Snapshot{TotalRequests: 2, FailedRequests: 2}
		assert.Equal(t, float64(0), snap.SuccessRate())
	})
}
