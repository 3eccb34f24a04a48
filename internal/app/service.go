// Package service composes the assessment pipeline, per-validator sessions,
// the async queue and the decision store behind the API dependencies.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/emochain/internal/adapters/mq/queue"
	"github.com/okian/emochain/internal/adapters/mq/worker"
	"github.com/okian/emochain/internal/adapters/repository"
	"github.com/okian/emochain/internal/domain/classifier"
	"github.com/okian/emochain/internal/domain/dedupe"
	"github.com/okian/emochain/internal/domain/model"
	"github.com/okian/emochain/internal/domain/pipeline"
	"github.com/okian/emochain/internal/domain/readiness"
	"github.com/okian/emochain/internal/domain/scoring"
	"github.com/okian/emochain/internal/domain/session"
	"github.com/okian/emochain/internal/domain/types"
	"github.com/okian/emochain/pkg/logger"
	"github.com/okian/emochain/pkg/metrics"
)

// Model sources reported by MLStatus.
const (
	SourceNone     = "none"
	SourceBuiltin  = "builtin"
	SourceInjected = "injected"
)

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	store    *repository.DecisionStore
	sessions *session.Registry
	pipeline *pipeline.Pipeline
	queue    *queue.InMemoryQueue
	pool     *worker.Pool
	deduper  dedupe.Deduper

	workerCount      int
	queueSize        int
	dedupeSize       int
	maxSessions      int
	historySize      int
	smoothingWindow  int
	modelPath        string
	useBuiltin       bool
	classifiers      []classifier.Classifier
	rejectOnAnomaly  bool
	threshold        int
	batchConcurrency int
	jitterSeed       int64

	modelSource string
	started     bool

	logger logger.Logger
}

// New constructs a Service. Components are created by Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        10_000,
		dedupeSize:       50_000,
		maxSessions:      50_000,
		historySize:      20,
		smoothingWindow:  5,
		rejectOnAnomaly:  true,
		threshold:        readiness.DefaultPolicy().Threshold,
		batchConcurrency: 8,
		jitterSeed:       42,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the pipeline and launches the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting assessment service")

	classifiers, source := s.loadClassifiers(ctx)
	scorer := scoring.Select(classifiers, scoring.WithSeed(s.jitterSeed))

	policy := readiness.DefaultPolicy()
	policy.Threshold = s.threshold

	sessions, err := session.NewRegistry(
		session.WithMaxSessions(s.maxSessions),
		session.WithSubjectOptions(
			pipeline.WithSmoothingWindow(s.smoothingWindow),
			pipeline.WithHistorySize(s.historySize),
		),
	)
	if err != nil {
		return fmt.Errorf("create session registry: %w", err)
	}
	deduper, err := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	if err != nil {
		return fmt.Errorf("create deduper: %w", err)
	}

	s.sessions = sessions
	s.deduper = deduper
	s.modelSource = source
	s.pipeline = pipeline.New(scorer,
		pipeline.WithGate(readiness.New(policy)),
		pipeline.WithRejectOnAnomaly(s.rejectOnAnomaly),
	)
	s.store = repository.NewDecisionStore(ctx)
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, evaluator{s}, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "assessment service started",
		logger.String("mode", string(scorer.Mode())),
		logger.String("model_source", source),
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("max_sessions", s.maxSessions),
	)
	return nil
}

// loadClassifiers resolves the classifier set. A model file that cannot be
// loaded leaves the service in rule mode.
func (s *Service) loadClassifiers(ctx context.Context) ([]classifier.Classifier, string) {
	switch {
	case len(s.classifiers) > 0:
		return s.classifiers, SourceInjected
	case s.modelPath != "":
		cs, err := classifier.LoadModels(ctx, s.modelPath)
		if err != nil {
			metrics.RecordModelFallback()
			s.logger.Warn(ctx, "model unavailable, using rule-based scoring",
				logger.String("model_path", s.modelPath),
				logger.Error(err),
			)
			return nil, SourceNone
		}
		return cs, s.modelPath
	case s.useBuiltin:
		return classifier.BuiltinModels(), SourceBuiltin
	default:
		return nil, SourceNone
	}
}

// Stop drains the queue and releases background goroutines.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping assessment service")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	_ = s.store.Close()

	s.started = false
	s.logger.Info(ctx, "assessment service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// evaluate runs the pipeline without publishing. An empty validatorID uses
// fresh per-call state.
func (s *Service) evaluate(ctx context.Context, validatorID string, snap model.BiometricSnapshot) (model.Assessment, error) {
	var subject *pipeline.Subject
	if validatorID != "" {
		subject = s.sessions.Get(ctx, validatorID)
	}
	return s.pipeline.Evaluate(ctx, subject, snap)
}

// Publish stores a as the validator's latest decision. Anonymous
// assessments are not stored.
func (s *Service) Publish(ctx context.Context, a model.Assessment) error { //nolint:gocritic // stored by value
	if a.ValidatorID == "" {
		return nil
	}
	if _, err := s.store.Put(ctx, a); err != nil {
		return fmt.Errorf("store assessment: %w", err)
	}
	return nil
}

// Assess evaluates one snapshot synchronously and publishes the result.
func (s *Service) Assess(ctx context.Context, validatorID string, snap model.BiometricSnapshot) (model.Assessment, error) {
	if err := s.ready(); err != nil {
		return model.Assessment{}, err
	}
	a, err := s.evaluate(ctx, validatorID, snap)
	if err != nil {
		return model.Assessment{}, err
	}
	if err := s.Publish(ctx, a); err != nil {
		return model.Assessment{}, err
	}
	return a, nil
}

// AssessBatch evaluates items concurrently. Results keep the input order and
// a failing item does not affect the others. Items for the same validator
// are serialized by that validator's session lock, in no particular order.
func (s *Service) AssessBatch(ctx context.Context, items []types.BatchItem) ([]types.BatchResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	results := make([]types.BatchResult, len(items))
	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, item := range items {
		g.Go(func() error {
			if item.ValidatorID == "" {
				results[i].Err = ErrMissingValidator
				return nil
			}
			results[i].Assessment, results[i].Err = s.Assess(ctx, item.ValidatorID, item.Snapshot)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

// Submit queues a snapshot for asynchronous assessment. A repeated non-empty
// submissionID returns the original job without queuing again.
func (s *Service) Submit(ctx context.Context, submissionID, validatorID string, snap model.BiometricSnapshot) (types.Receipt, error) {
	if err := s.ready(); err != nil {
		return types.Receipt{}, err
	}
	if validatorID == "" {
		return types.Receipt{}, ErrMissingValidator
	}

	jobID := uuid.NewString()
	if submissionID != "" {
		if prior, seen := s.deduper.SeenAndRecord(ctx, submissionID, jobID); seen {
			return types.Receipt{JobID: prior, Duplicate: true}, nil
		}
	}

	err := s.queue.Enqueue(ctx, model.AssessmentJob{
		JobID:       jobID,
		ValidatorID: validatorID,
		Snapshot:    snap,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		if submissionID != "" {
			s.deduper.Unrecord(ctx, submissionID)
		}
		if errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrClosed) {
			return types.Receipt{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return types.Receipt{}, err
	}

	s.logger.Debug(ctx, "assessment queued",
		logger.String("job_id", jobID),
		logger.String("validator_id", validatorID),
	)
	return types.Receipt{JobID: jobID}, nil
}

// Readiness returns the latest decision of a validator with its rank.
func (s *Service) Readiness(ctx context.Context, validatorID string) (types.ValidatorReadiness, error) {
	if err := s.ready(); err != nil {
		return types.ValidatorReadiness{}, err
	}

	a, err := s.store.Get(ctx, validatorID)
	if errors.Is(err, repository.ErrNotFound) {
		return types.ValidatorReadiness{}, fmt.Errorf("%w: validator %s", ErrNotFound, validatorID)
	}
	if err != nil {
		return types.ValidatorReadiness{}, err
	}
	entry, err := s.store.Rank(ctx, validatorID)
	if err != nil {
		return types.ValidatorReadiness{}, err
	}
	return types.ValidatorReadiness{
		Entry:          toEntry(entry),
		AssessmentID:   a.AssessmentID,
		Recommendation: a.Decision.Recommendation,
		Metrics:        a.Decision.Metrics,
		DataQuality:    a.Quality,
		Anomaly:        a.Anomaly,
	}, nil
}

// TopReady lists validators by readiness score. With readyOnly only
// consensus-ready validators are included.
func (s *Service) TopReady(ctx context.Context, limit int, readyOnly bool) (types.ReadyList, error) {
	if err := s.ready(); err != nil {
		return types.ReadyList{}, err
	}

	entries, err := s.store.TopN(ctx, limit, readyOnly)
	if errors.Is(err, repository.ErrInvalidLimit) {
		return types.ReadyList{}, fmt.Errorf("%w: %d", types.ErrInvalidLimit, limit)
	}
	if err != nil {
		return types.ReadyList{}, err
	}
	out := types.ReadyList{
		Validators: make([]types.Entry, len(entries)),
		Total:      s.store.Count(ctx),
		Ready:      s.store.ReadyCount(ctx),
	}
	for i, e := range entries {
		out.Validators[i] = toEntry(e)
	}
	return out, nil
}

// MLStatus describes the active scoring strategy.
func (s *Service) MLStatus(_ context.Context) types.MLStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := types.MLStatus{
		Mode:        string(scoring.ModeRules),
		Classifiers: []string{},
		ModelSource: SourceNone,
		Categories:  make([]string, model.ClassifierCategoryCount),
	}
	for i := range status.Categories {
		status.Categories[i] = string(model.CategoryFromID(i))
	}
	if !s.started {
		return status
	}

	scorer := s.pipeline.Scorer()
	status.Mode = string(scorer.Mode())
	status.ModelSource = s.modelSource
	if e, ok := scorer.(*scoring.EnsembleScorer); ok {
		status.Trained = true
		status.Classifiers = e.Classifiers()
	}
	return status
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"maxSessions": s.maxSessions,
	}
	if !s.started {
		return stats
	}

	queueLen := s.queue.Len(ctx)
	sessions := s.sessions.Len()
	stats["queueLength"] = queueLen
	stats["busyWorkers"] = s.pool.Busy()
	stats["sessions"] = sessions
	stats["validators"] = s.store.Count(ctx)
	stats["readyValidators"] = s.store.ReadyCount(ctx)
	stats["submissionKeys"] = s.deduper.Size()
	stats["mode"] = string(s.pipeline.Mode())

	metrics.UpdateSessionsActive(sessions)
	return stats
}

func toEntry(e repository.Entry) types.Entry { //nolint:gocritic // small read-only copy
	return types.Entry{
		Rank:            e.Rank,
		ValidatorID:     e.ValidatorID,
		ReadinessScore:  e.ReadinessScore,
		ConsensusReady:  e.ConsensusReady,
		EmotionCategory: string(e.Category),
		UpdatedAt:       e.UpdatedAt,
	}
}

// evaluator adapts the Service to worker.Assessor without publishing twice.
type evaluator struct{ s *Service }

func (e evaluator) Assess(ctx context.Context, validatorID string, snap model.BiometricSnapshot) (model.Assessment, error) {
	return e.s.evaluate(ctx, validatorID, snap)
}
