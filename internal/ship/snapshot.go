package ship

import "time"

// Snapshot is a point-in-time, read-only view of the pipeline for the
// observability surface. It is safe to take concurrently with delivery.
type Snapshot struct {
	// Provider is the configured backend name, empty when shipping is
	// disabled.
	Provider string

	// URLConfigured reports whether a target ingestion URL is resolved.
	URLConfigured bool

	// BufferDepth is the number of items currently queued.
	BufferDepth int

	BatchSize     int
	FlushInterval time.Duration
	MaxRetries    int

	// LastFlush is the time of the last successful delivery, nil when no
	// batch has ever shipped.
	LastFlush *time.Time

	BatchesShipped uint64
	BatchesFailed  uint64
}

// Snapshot captures the current pipeline state.
func (s *Shipper) Snapshot() Snapshot {
	snap := Snapshot{
		URLConfigured:  s.cfg.URLConfigured,
		BufferDepth:    s.buf.Len(),
		BatchSize:      s.cfg.BatchSize,
		FlushInterval:  s.cfg.FlushInterval,
		MaxRetries:     s.cfg.MaxRetries,
		BatchesShipped: s.metrics.BatchesShipped(),
		BatchesFailed:  s.metrics.BatchesFailed(),
	}
	if s.backend != nil {
		snap.Provider = s.backend.Name()
	}
	if t, ok := s.metrics.LastFlush(); ok {
		snap.LastFlush = &t
	}
	return snap
}
