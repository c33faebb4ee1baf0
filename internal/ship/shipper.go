package ship

import (
	"context"
	"log/slog"
	"time"

	"github.com/logrelay/logrelay/internal/backend"
	"github.com/logrelay/logrelay/internal/entry"
)

// Config is the delivery tuning resolved once at startup.
type Config struct {
	// BatchSize is the buffer depth that triggers an immediate flush and
	// the upper bound on entries per delivery.
	BatchSize int

	// FlushInterval is how long a non-empty buffer may sit idle before a
	// timer-driven flush.
	FlushInterval time.Duration

	// MaxRetries is the per-item redelivery ceiling. An item whose attempt
	// count exceeds it after a failure is dropped with a warning.
	MaxRetries int

	// URLConfigured is echoed on the metrics snapshot.
	URLConfigured bool
}

// Shipper owns the buffer, the flush timer, and the delivery counters.
// Producers call Enqueue and FlushNow from any goroutine; all delivery and
// timer state is confined to the Run loop, so flushes never overlap and at
// most one timer is armed at a time.
//
// A Shipper built with a nil backend is disabled: Enqueue and FlushNow are
// no-ops and Run returns immediately. Log production must never fail or
// block because shipping is unconfigured or unhealthy.
type Shipper struct {
	cfg     Config
	backend backend.Backend
	buf     *Buffer
	metrics *Metrics

	// wake coalesces enqueue notifications; force carries FlushNow
	// requests. Both are capacity-1 and written non-blockingly.
	wake  chan struct{}
	force chan struct{}

	now func() time.Time // injectable for deterministic tests
}

// New builds a Shipper. A zero batch size or flush interval falls back to
// the documented defaults (25 entries, 2s); MaxRetries of zero is honored
// as "never redeliver". be may be nil to disable delivery.
func New(cfg Config, be backend.Backend, m *Metrics) *Shipper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if m == nil {
		m = &Metrics{}
	}
	return &Shipper{
		cfg:     cfg,
		backend: be,
		buf:     NewBuffer(cfg.BatchSize),
		metrics: m,
		wake:    make(chan struct{}, 1),
		force:   make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Enqueue appends one entry to the buffer and nudges the worker. It never
// blocks and never fails; with no backend configured it is a no-op.
func (s *Shipper) Enqueue(e entry.Entry) {
	if s.backend == nil {
		return
	}
	s.buf.Enqueue(e)
	notify(s.wake)
}

// FlushNow asks the worker to flush immediately, ahead of any armed timer.
func (s *Shipper) FlushNow() {
	if s.backend == nil {
		return
	}
	notify(s.force)
}

// Metrics returns the shared counter set.
func (s *Shipper) Metrics() *Metrics { return s.metrics }

// Run is the delivery worker. It owns the single flush timer: armed by an
// enqueue on a non-empty buffer, cancelled by a size-triggered or forced
// flush, re-armed with a backoff delay after a failure. Run blocks until
// ctx is cancelled; any buffered or in-flight state is abandoned then.
func (s *Shipper) Run(ctx context.Context) {
	if s.backend == nil {
		slog.Info("ship: no backend configured, delivery disabled")
		return
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	schedule := func(d time.Duration) {
		if armed {
			return
		}
		timer.Reset(d)
		armed = true
	}
	cancelTimer := func() {
		if !armed {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		armed = false
	}

	slog.Info("ship: delivery worker started",
		"backend", s.backend.Name(),
		"batch_size", s.cfg.BatchSize,
		"flush_interval", s.cfg.FlushInterval,
		"max_retries", s.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			cancelTimer()
			if depth := s.buf.Len(); depth > 0 {
				slog.Warn("ship: shutting down, abandoning buffered entries", "depth", depth)
			}
			return

		case <-s.wake:
			if s.buf.Len() >= s.cfg.BatchSize {
				cancelTimer()
				if d := s.flush(ctx); d > 0 {
					schedule(d)
				}
			} else if s.buf.Len() > 0 {
				schedule(s.cfg.FlushInterval)
			}

		case <-s.force:
			cancelTimer()
			if d := s.flush(ctx); d > 0 {
				schedule(d)
			}

		case <-timer.C:
			armed = false
			if d := s.flush(ctx); d > 0 {
				schedule(d)
			}
		}
	}
}

// flush takes one batch from the head of the buffer and attempts delivery.
// It returns the delay before the next flush should be scheduled: the
// backoff delay after a failure, the flush interval when entries remain
// after a success, and zero when nothing further is pending.
func (s *Shipper) flush(ctx context.Context) time.Duration {
	batch := s.buf.TakeBatch(s.cfg.BatchSize)
	if len(batch) == 0 {
		return 0
	}

	entries := make([]entry.Entry, len(batch))
	for i := range batch {
		entries[i] = batch[i].Entry
	}

	err := s.backend.Send(ctx, entries)
	if err == nil {
		s.metrics.RecordShipped(s.now())
		slog.Debug("ship: batch delivered",
			"backend", s.backend.Name(), "count", len(entries))
		if s.buf.Len() > 0 {
			return s.cfg.FlushInterval
		}
		return 0
	}

	s.metrics.RecordFailed()
	slog.Warn("ship: batch delivery failed",
		"backend", s.backend.Name(), "count", len(entries), "err", err)

	// Wholesale failure: every item of the batch carries one more attempt.
	kept := make([]Item, 0, len(batch))
	for i := range batch {
		batch[i].Attempts++
		if batch[i].Attempts > s.cfg.MaxRetries {
			slog.Warn("ship: dropping entry, retries exhausted",
				"attempts", batch[i].Attempts, "msg", batch[i].Entry.Msg)
			continue
		}
		kept = append(kept, batch[i])
	}
	s.buf.RequeueFront(kept)

	// All items of a batch share one attempt count at failure time, so the
	// first item stands in for the whole batch.
	return backoffDelay(batch[0].Attempts)
}

// backoffDelay is 1000 * min(8, 2^min(5, attempts)) milliseconds: the
// exponent and the multiplier are both capped, so consecutive failures back
// off 2s, 4s, 8s and hold at 8s.
func backoffDelay(attempts int) time.Duration {
	exp := attempts
	if exp > 5 {
		exp = 5
	}
	mult := 1 << exp
	if mult > 8 {
		mult = 8
	}
	return time.Duration(mult) * time.Second
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
