package ship

import (
	"sync"

	"github.com/logrelay/logrelay/internal/entry"
)

// Item wraps one entry with its delivery attempt count. Items are owned by
// the Buffer except while a flush holds them for a delivery attempt.
type Item struct {
	Entry    entry.Entry
	Attempts int
}

// Buffer is the ordered queue of pending items. Fresh entries append at the
// tail; failed batches reinsert at the head so retries keep rough temporal
// priority. Growth is unbounded; producers are never blocked or rejected.
type Buffer struct {
	mu    sync.Mutex
	items []Item
}

// NewBuffer returns an empty buffer sized for one batch.
func NewBuffer(batchSize int) *Buffer {
	return &Buffer{items: make([]Item, 0, batchSize)}
}

// Enqueue appends a fresh item (attempts = 0) at the tail and returns the
// new queue depth. It never fails.
func (b *Buffer) Enqueue(e entry.Entry) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, Item{Entry: e})
	return len(b.items)
}

// TakeBatch atomically removes and returns up to max items from the head.
// It returns nil when the buffer is empty.
func (b *Buffer) TakeBatch(max int) []Item {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.items)
	if n == 0 {
		return nil
	}
	if n > max {
		n = max
	}

	batch := make([]Item, n)
	copy(batch, b.items[:n])
	rest := copy(b.items, b.items[n:])
	b.items = b.items[:rest]
	return batch
}

// RequeueFront reinserts items at the head, preserving their relative order.
func (b *Buffer) RequeueFront(items []Item) {
	if len(items) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(append(make([]Item, 0, len(items)+len(b.items)), items...), b.items...)
}

// Len returns the current queue depth.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
