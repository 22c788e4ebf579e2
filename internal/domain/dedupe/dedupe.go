// Package dedupe defines the interface for match-id idempotency tracking.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen match IDs so fact ingestion is at-most-once.
type Deduper interface {
	// SeenAndRecord atomically checks if matchID was seen and records it
	// if not. Returns true if matchID was already seen.
	SeenAndRecord(ctx context.Context, matchID string) bool

	// Unrecord removes a match ID from the seen set so ingestion can be
	// retried. Used when a fact was recorded as seen but could not be
	// handed to the queue (backpressure).
	Unrecord(ctx context.Context, matchID string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus an insertion-order
// slice used for eviction in bounded mode (maxSize > 0). Unbounded mode
// (maxSize <= 0) never evicts.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order, oldest first; only kept in bounded mode
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}
	return d
}

// SeenAndRecord atomically checks if matchID was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, matchID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[matchID]; ok {
		return true
	}

	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}

	d.seen[matchID] = struct{}{}
	if d.maxSize > 0 {
		d.order = append(d.order, matchID)
	}
	d.size.Add(1)
	return false
}

// Unrecord removes matchID from the seen set.
func (d *inMemoryDeduper) Unrecord(_ context.Context, matchID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[matchID]; !ok {
		return
	}
	delete(d.seen, matchID)
	d.size.Add(-1)
	for i, id := range d.order {
		if id == matchID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// evictOldest drops the oldest recorded id. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	oldest := d.order[0]
	d.order = d.order[1:]
	if _, ok := d.seen[oldest]; ok {
		delete(d.seen, oldest)
		d.size.Add(-1)
	}
}

// Size returns the current number of recorded ids.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
