// Package dedupe tracks which manifest entries have already been scheduled so
// a practice listed twice is only counted once.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size returns the number of distinct ids recorded.
	Size() int64
}

// inMemoryDeduper is a mutex-guarded set keyed by the normalized id.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	key  func(string) string
	size atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen: make(map[string]struct{}),
		key:  func(s string) string { return s },
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SeenAndRecord implements Deduper.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	k := d.key(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[k]; ok {
		return true
	}
	d.seen[k] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the number of recorded keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
