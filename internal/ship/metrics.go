package ship

import (
	"sync/atomic"
	"time"
)

// Metrics holds the lifetime delivery counters. Fields are atomics so the
// HTTP surface can read them while the worker mutates them.
type Metrics struct {
	batchesShipped atomic.Uint64
	batchesFailed  atomic.Uint64

	// lastFlushNano is the unix-nano time of the last successful flush,
	// 0 when no batch has ever shipped.
	lastFlushNano atomic.Int64
}

// RecordShipped counts one delivered batch and stamps the flush time.
func (m *Metrics) RecordShipped(at time.Time) {
	m.batchesShipped.Add(1)
	m.lastFlushNano.Store(at.UnixNano())
}

// RecordFailed counts one failed delivery attempt.
func (m *Metrics) RecordFailed() {
	m.batchesFailed.Add(1)
}

// BatchesShipped returns the lifetime count of delivered batches.
func (m *Metrics) BatchesShipped() uint64 { return m.batchesShipped.Load() }

// BatchesFailed returns the lifetime count of failed delivery attempts.
func (m *Metrics) BatchesFailed() uint64 { return m.batchesFailed.Load() }

// LastFlush returns the time of the last successful flush. ok is false when
// nothing has shipped yet.
func (m *Metrics) LastFlush() (t time.Time, ok bool) {
	n := m.lastFlushNano.Load()
	if n == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, n), true
}
