package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/emochain/internal/domain/model"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func assessment(id string, score int, ready bool, at time.Time) model.Assessment {
	return model.Assessment{
		AssessmentID: "a-" + id,
		ValidatorID:  id,
		Timestamp:    at,
		Metrics:      model.EmotionMetrics{Category: model.CategoryCalm},
		Decision:     model.ReadinessDecision{ReadinessScore: score, ConsensusReady: ready},
	}
}

func TestDecisionStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewDecisionStore(ctx)
	defer store.Close()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	updated, err := store.Put(ctx, assessment("v1", 85, true, t0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Error("expected put to store the assessment")
	}

	got, err := store.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AssessmentID != "a-v1" {
		t.Errorf("expected assessment a-v1, got %s", got.AssessmentID)
	}

	entry, err := store.Rank(ctx, "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 || entry.ReadinessScore != 85 || !entry.ConsensusReady {
		t.Errorf("unexpected entry %+v", entry)
	}

	if store.Count(ctx) != 1 || store.ReadyCount(ctx) != 1 {
		t.Errorf("expected 1/1, got %d/%d", store.Count(ctx), store.ReadyCount(ctx))
	}
}

func TestDecisionStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewDecisionStore(ctx)
	defer store.Close()

	if _, err := store.Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Rank(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.TopN(ctx, 0, false); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.Put(ctx, assessment("", 50, false, t0)); !errors.Is(err, ErrMissingValidator) {
		t.Errorf("expected ErrMissingValidator, got %v", err)
	}
}

func TestDecisionStore_LatestWins(t *testing.T) {
	ctx := context.Background()
	store := NewDecisionStore(ctx)
	defer store.Close()

	mustPut(t, store, assessment("v1", 90, true, t0))
	mustPut(t, store, assessment("v1", 40, false, t0.Add(time.Second)))

	got, _ := store.Get(ctx, "v1")
	if got.Decision.ReadinessScore != 40 {
		t.Errorf("expected the newer score 40, got %d", got.Decision.ReadinessScore)
	}
	if store.ReadyCount(ctx) != 0 {
		t.Errorf("expected ready count 0, got %d", store.ReadyCount(ctx))
	}

	updated, err := store.Put(ctx, assessment("v1", 99, true, t0))
	if err != nil || updated {
		t.Errorf("expected an older assessment to be ignored, got %v %v", updated, err)
	}
	got, _ = store.Get(ctx, "v1")
	if got.Decision.ReadinessScore != 40 {
		t.Errorf("older assessment replaced the newer one: %d", got.Decision.ReadinessScore)
	}

	entries, _ := store.TopN(ctx, 10, false)
	if len(entries) != 1 {
		t.Errorf("expected one entry after replacement, got %d", len(entries))
	}
}

func TestDecisionStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewDecisionStore(ctx)
	defer store.Close()

	mustPut(t, store, assessment("carol", 70, true, t0))
	mustPut(t, store, assessment("alice", 95, true, t0))
	mustPut(t, store, assessment("bob", 70, true, t0))
	mustPut(t, store, assessment("dave", 35, false, t0))
	mustPut(t, store, assessment("erin", 60, false, t0))

	entries, err := store.TopN(ctx, 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		id   string
		rank int
	}{{"alice", 1}, {"bob", 2}, {"carol", 2}, {"erin", 3}, {"dave", 4}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].ValidatorID != w.id || entries[i].Rank != w.rank {
			t.Errorf("position %d: expected %s rank %d, got %s rank %d", i, w.id, w.rank, entries[i].ValidatorID, entries[i].Rank)
		}
	}

	top2, _ := store.TopN(ctx, 2, false)
	if len(top2) != 2 || top2[1].ValidatorID != "bob" {
		t.Errorf("unexpected top 2: %+v", top2)
	}

	ready, _ := store.TopN(ctx, 10, true)
	if len(ready) != 3 {
		t.Fatalf("expected 3 ready validators, got %d", len(ready))
	}
	for _, e := range ready {
		if !e.ConsensusReady {
			t.Errorf("%s is not ready", e.ValidatorID)
		}
	}

	rank, _ := store.Rank(ctx, "erin")
	if rank.Rank != 3 {
		t.Errorf("expected erin at rank 3, got %d", rank.Rank)
	}
}

func TestDecisionStore_ScoresAboveMax(t *testing.T) {
	ctx := context.Background()
	store := NewDecisionStore(ctx, WithMaxScore(10))
	defer store.Close()

	mustPut(t, store, assessment("a", 12, true, t0))
	mustPut(t, store, assessment("b", 15, true, t0))
	mustPut(t, store, assessment("c", -3, false, t0))

	entries, _ := store.TopN(ctx, 3, false)
	if entries[0].ValidatorID != "b" || entries[1].ValidatorID != "a" || entries[2].ValidatorID != "c" {
		t.Errorf("unexpected order: %+v", entries)
	}
	if r, _ := store.Rank(ctx, "a"); r.Rank != 2 {
		t.Errorf("expected a at rank 2, got %d", r.Rank)
	}
}

func TestDecisionStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewDecisionStore(ctx, WithMetricsUpdateInterval(time.Millisecond))
	defer store.Close()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := fmt.Sprintf("v-%d", i%50)
				a := assessment(id, (w*i)%101, i%2 == 0, t0.Add(time.Duration(i)*time.Millisecond))
				if _, err := store.Put(ctx, a); err != nil {
					t.Errorf("put: %v", err)
				}
				if _, err := store.TopN(ctx, 10, i%3 == 0); err != nil {
					t.Errorf("topn: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	if store.Count(ctx) != 50 {
		t.Errorf("expected 50 validators, got %d", store.Count(ctx))
	}
	entries, _ := store.TopN(ctx, 50, false)
	ready := 0
	for i, e := range entries {
		if e.ConsensusReady {
			ready++
		}
		if i > 0 && entries[i-1].ReadinessScore < e.ReadinessScore {
			t.Fatalf("entries out of order at %d", i)
		}
	}
	if ready != store.ReadyCount(ctx) {
		t.Errorf("ready count %d does not match listing %d", store.ReadyCount(ctx), ready)
	}
}

func TestDecisionStore_CloseBehavior(t *testing.T) {
	store := NewDecisionStore(context.Background(), WithMetricsUpdateInterval(time.Millisecond))
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func BenchmarkDecisionStore_PutAndTopN(b *testing.B) {
	ctx := context.Background()
	store := NewDecisionStore(ctx)
	defer store.Close()

	for i := 0; i < 10_000; i++ {
		_, _ = store.Put(ctx, assessment(fmt.Sprintf("v-%d", i), i%101, i%3 == 0, t0))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Put(ctx, assessment(fmt.Sprintf("v-%d", i%10_000), i%101, i%2 == 0, t0.Add(time.Duration(i))))
		_, _ = store.TopN(ctx, 100, true)
	}
}

func mustPut(t *testing.T, s *DecisionStore, a model.Assessment) {
	t.Helper()
	if _, err := s.Put(context.Background(), a); err != nil {
		t.Fatalf("put %s: %v", a.ValidatorID, err)
	}
}
