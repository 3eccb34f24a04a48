// Package pipeline runs one biometric reading through normalization, feature
// derivation, quality and anomaly checks, emotion scoring and the readiness
// gate, producing a complete Assessment.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/emochain/internal/domain/anomaly"
	"github.com/okian/emochain/internal/domain/features"
	"github.com/okian/emochain/internal/domain/model"
	"github.com/okian/emochain/internal/domain/quality"
	"github.com/okian/emochain/internal/domain/readiness"
	"github.com/okian/emochain/internal/domain/scoring"
	"github.com/okian/emochain/pkg/metrics"
)

// Pipeline is stateless apart from its collaborators; per-validator state
// lives in Subject. Safe for concurrent use.
type Pipeline struct {
	scorer          scoring.Scorer
	detector        *anomaly.Detector
	gate            *readiness.Gate
	rejectOnAnomaly bool
	now             func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDetector replaces the anomaly detector.
func WithDetector(d *anomaly.Detector) Option {
	return func(p *Pipeline) {
		if d != nil {
			p.detector = d
		}
	}
}

// WithGate replaces the readiness gate.
func WithGate(g *readiness.Gate) Option {
	return func(p *Pipeline) {
		if g != nil {
			p.gate = g
		}
	}
}

// WithRejectOnAnomaly controls whether a flagged anomaly forces a not-ready
// decision. Enabled by default.
func WithRejectOnAnomaly(reject bool) Option {
	return func(p *Pipeline) {
		p.rejectOnAnomaly = reject
	}
}

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a pipeline around scorer.
func New(scorer scoring.Scorer, opts ...Option) *Pipeline {
	p := &Pipeline{
		scorer:          scorer,
		detector:        anomaly.NewDetector(),
		gate:            readiness.New(readiness.DefaultPolicy()),
		rejectOnAnomaly: true,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the scoring mode in use.
func (p *Pipeline) Mode() scoring.Mode { return p.scorer.Mode() }

// Scorer returns the bound scorer.
func (p *Pipeline) Scorer() scoring.Scorer { return p.scorer }

// Evaluate assesses raw for subject s. A nil s evaluates against fresh state.
// Missing or malformed fields never fail; only scorer failures and internal
// panics return an error. A failed reading leaves neither the smoothing
// window nor the anomaly history of s changed.
func (p *Pipeline) Evaluate(ctx context.Context, s *Subject, raw model.BiometricSnapshot) (a model.Assessment, err error) {
	if s == nil {
		s = NewSubject("")
	}
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordAssessmentError("panic")
			a, err = model.Assessment{}, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return model.Assessment{}, err
	}

	window := s.normalizer.History()
	committed := false
	defer func() {
		if !committed {
			s.normalizer.Restore(window)
		}
	}()

	n := s.normalizer.Normalize(raw)
	d := features.Derive(n)
	q := quality.Assess(n)
	report := p.detector.Detect(n, s.history.Snapshots())

	m, prediction, err := p.scorer.Score(ctx, scoring.Input{Normalized: n, Derived: d})
	if err != nil {
		metrics.RecordAssessmentError("score")
		return model.Assessment{}, fmt.Errorf("%w: %w", ErrScore, err)
	}
	s.history.Append(n)
	committed = true

	decision := p.gate.Evaluate(m)
	if report.HasAnomaly && p.rejectOnAnomaly {
		decision.ConsensusReady = false
		decision.Recommendation = readiness.RecommendLowAuthenticity
		metrics.RecordAnomalyRejection()
	}

	a = model.Assessment{
		AssessmentID: uuid.NewString(),
		ValidatorID:  s.ID,
		Timestamp:    p.now().UTC(),
		Normalized:   n,
		Derived:      d,
		Quality:      q,
		Anomaly:      report,
		Metrics:      m,
		Decision:     decision,
		MLUsed:       p.scorer.Mode() == scoring.ModeEnsemble,
		MLPrediction: prediction,
	}

	metrics.RecordAnomalies(report.AnomalyTypes)
	metrics.RecordAssessment(string(p.scorer.Mode()), string(m.Category), decision.ReadinessScore,
		decision.ConsensusReady, q, float64(time.Since(start).Microseconds())/1000)
	return a, nil
}
