package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/emochain/internal/domain/model"
	"github.com/okian/emochain/pkg/metrics"
)

const (
	defaultMaxScore              = 100
	defaultMetricsUpdateInterval = 5 * time.Second
)

// DecisionStore is an in-memory Store. Readiness scores are small integers,
// so validators are indexed in one bucket per score and ranked by walking
// buckets from the top.
type DecisionStore struct {
	mu      sync.RWMutex
	byID    map[string]model.Assessment
	buckets []map[string]struct{}
	ready   int

	maxScore              int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewDecisionStore constructs a store and starts its metrics updater, which
// runs until ctx is done or Close is called.
func NewDecisionStore(ctx context.Context, opts ...Option) *DecisionStore {
	s := &DecisionStore{
		byID:                  make(map[string]model.Assessment),
		maxScore:              defaultMaxScore,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.buckets = make([]map[string]struct{}, s.maxScore+1)

	metrics.UpdateStoreCounts(0, 0)
	s.startMetricsUpdater(ctx)
	return s
}

func (s *DecisionStore) bucket(score int) int {
	switch {
	case score < 0:
		return 0
	case score > s.maxScore:
		return s.maxScore
	default:
		return score
	}
}

// Put implements Store.Put.
func (s *DecisionStore) Put(_ context.Context, a model.Assessment) (bool, error) { //nolint:gocritic // stored by value
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if a.ValidatorID == "" {
		metrics.RecordErrorByComponent("repository", "missing_validator")
		return false, ErrMissingValidator
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byID[a.ValidatorID]; ok {
		if a.Timestamp.Before(old.Timestamp) {
			return false, nil
		}
		delete(s.buckets[s.bucket(old.Decision.ReadinessScore)], a.ValidatorID)
		if old.Decision.ConsensusReady {
			s.ready--
		}
	}

	b := s.bucket(a.Decision.ReadinessScore)
	if s.buckets[b] == nil {
		s.buckets[b] = make(map[string]struct{})
	}
	s.buckets[b][a.ValidatorID] = struct{}{}
	if a.Decision.ConsensusReady {
		s.ready++
	}
	s.byID[a.ValidatorID] = a
	return true, nil
}

// Get implements Store.Get.
func (s *DecisionStore) Get(_ context.Context, validatorID string) (model.Assessment, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[validatorID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Assessment{}, ErrNotFound
	}
	return a, nil
}

// Rank implements Store.Rank. Validators with equal scores share a rank.
func (s *DecisionStore) Rank(_ context.Context, validatorID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[validatorID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}

	score := a.Decision.ReadinessScore
	higher := make(map[int]struct{})
	for b := s.maxScore; b >= s.bucket(score); b-- {
		for id := range s.buckets[b] {
			if other := s.byID[id].Decision.ReadinessScore; other > score {
				higher[other] = struct{}{}
			}
		}
	}
	e := entryOf(a)
	e.Rank = len(higher) + 1
	return e, nil
}

// TopN implements Store.TopN.
func (s *DecisionStore) TopN(_ context.Context, n int, readyOnly bool) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byID)))
	for b := s.maxScore; b >= 0 && len(out) < n; b-- {
		if len(s.buckets[b]) == 0 {
			continue
		}
		rows := make([]Entry, 0, len(s.buckets[b]))
		for id := range s.buckets[b] {
			a := s.byID[id]
			if readyOnly && !a.Decision.ConsensusReady {
				continue
			}
			rows = append(rows, entryOf(a))
		}
		sortEntries(rows)
		out = append(out, rows[:min(len(rows), n-len(out))]...)
	}

	assignRanksWithTies(out)
	return out, nil
}

// Count implements Store.Count.
func (s *DecisionStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// ReadyCount implements Store.ReadyCount.
func (s *DecisionStore) ReadyCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Close stops the metrics updater.
func (s *DecisionStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *DecisionStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *DecisionStore) updateMetrics() {
	s.mu.RLock()
	total, ready := len(s.byID), s.ready
	s.mu.RUnlock()
	metrics.UpdateStoreCounts(total, ready)
}

func entryOf(a model.Assessment) Entry { //nolint:gocritic // read-only copy
	return Entry{
		ValidatorID:    a.ValidatorID,
		ReadinessScore: a.Decision.ReadinessScore,
		ConsensusReady: a.Decision.ConsensusReady,
		Category:       a.Metrics.Category,
		AssessmentID:   a.AssessmentID,
		UpdatedAt:      a.Timestamp,
	}
}

// sortEntries orders by readiness score desc, then validator id asc.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ReadinessScore != entries[j].ReadinessScore {
			return entries[i].ReadinessScore > entries[j].ReadinessScore
		}
		return entries[i].ValidatorID < entries[j].ValidatorID
	})
}

// assignRanksWithTies gives equal scores the same rank; ranks stay consecutive.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].ReadinessScore != entries[i-1].ReadinessScore {
			rank++
		}
		entries[i].Rank = rank
	}
}
