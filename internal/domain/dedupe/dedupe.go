// Package dedupe tracks client submission keys so retried submissions are
// not assessed twice.
package dedupe

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxSize = 50_000

// Deduper remembers which job a submission key was assigned to.
type Deduper interface {
	// SeenAndRecord records key -> jobID unless key is already known, in
	// which case it returns the job recorded first and true.
	SeenAndRecord(ctx context.Context, key, jobID string) (string, bool)

	// Unrecord forgets key so a failed submission can be retried.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// InMemoryDeduper keeps the most recently used keys in an LRU.
type InMemoryDeduper struct {
	mu      sync.Mutex
	maxSize int
	seen    *lru.Cache[string, string]
}

// NewInMemoryDeduper creates a bounded deduper.
func NewInMemoryDeduper(opts ...Option) (*InMemoryDeduper, error) {
	d := &InMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	cache, err := lru.New[string, string](d.maxSize)
	if err != nil {
		return nil, fmt.Errorf("create dedupe cache: %w", err)
	}
	d.seen = cache
	return d, nil
}

// SeenAndRecord is atomic with respect to concurrent callers.
func (d *InMemoryDeduper) SeenAndRecord(_ context.Context, key, jobID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prior, ok := d.seen.Get(key); ok {
		return prior, true
	}
	d.seen.Add(key, jobID)
	return jobID, false
}

// Unrecord removes key.
func (d *InMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen.Remove(key)
}

// Size returns the number of remembered keys.
func (d *InMemoryDeduper) Size() int64 {
	return int64(d.seen.Len())
}
