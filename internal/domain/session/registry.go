// Package session keeps per-validator pipeline state in a bounded LRU.
package session

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/emochain/internal/domain/pipeline"
	"github.com/okian/emochain/pkg/metrics"
)

const defaultMaxSessions = 50_000

// Registry hands out one Subject per validator id. When full, the least
// recently used validator is dropped and starts over with fresh state.
type Registry struct {
	mu          sync.Mutex
	cache       *lru.Cache[string, *pipeline.Subject]
	maxSessions int
	subjectOpts []pipeline.SubjectOption
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxSessions bounds the number of live subjects.
func WithMaxSessions(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

// WithSubjectOptions applies opts to every subject the registry creates.
func WithSubjectOptions(opts ...pipeline.SubjectOption) Option {
	return func(r *Registry) {
		r.subjectOpts = append(r.subjectOpts, opts...)
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{maxSessions: defaultMaxSessions}
	for _, opt := range opts {
		opt(r)
	}
	cache, err := lru.NewWithEvict[string, *pipeline.Subject](r.maxSessions, func(string, *pipeline.Subject) {
		metrics.RecordSessionEviction()
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	r.cache = cache
	metrics.UpdateSessionsActive(0)
	return r, nil
}

// Get returns the subject for id, creating it on first use.
func (r *Registry) Get(_ context.Context, id string) *pipeline.Subject {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.cache.Get(id); ok {
		return s
	}
	s := pipeline.NewSubject(id, r.subjectOpts...)
	r.cache.Add(id, s)
	metrics.UpdateSessionsActive(r.cache.Len())
	return s
}

// Peek returns the subject for id without creating it or touching recency.
func (r *Registry) Peek(id string) (*pipeline.Subject, bool) {
	return r.cache.Peek(id)
}

// Remove forgets id. It reports whether id was present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ok := r.cache.Remove(id)
	metrics.UpdateSessionsActive(r.cache.Len())
	return ok
}

// Len returns the number of live subjects.
func (r *Registry) Len() int { return r.cache.Len() }

// Cap returns the maximum number of live subjects.
func (r *Registry) Cap() int { return r.maxSessions }
