// Package ship is the at-least-once batching pipeline between log producers
// and the remote ingestion backend.
//
// Producers call Shipper.Enqueue, which appends to an ordered in-memory
// buffer and returns immediately. A single worker goroutine (Shipper.Run)
// owns all delivery and timer state: when the buffer reaches the batch size
// an immediate flush runs, otherwise a one-shot idle timer flushes after the
// configured interval. At most one timer is armed at any time and flushes
// never overlap.
//
// A flush removes up to one batch from the head of the buffer and delivers
// it wholesale. On failure every item of the batch gets its attempt count
// incremented and is reinserted at the head (order preserved); items past
// the retry ceiling are dropped with a warning. The next flush is then
// scheduled with capped exponential backoff (2s, 4s, 8s, then 8s).
//
// Two properties are deliberate and documented rather than defects:
//
//   - Delivery order is FIFO for fresh entries only. Retried items re-enter
//     at the head, so ordering is not strictly FIFO once retries occur.
//   - The buffer is unbounded and producers never block or get a rejection
//     signal; a sustained outage grows memory until entries age out through
//     the retry ceiling.
//
// Delivery problems never propagate to the code producing log entries.
package ship
