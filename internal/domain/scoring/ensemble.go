package scoring

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/emochain/internal/domain/classifier"
	"github.com/okian/emochain/internal/domain/features"
	"github.com/okian/emochain/internal/domain/model"
	"github.com/okian/emochain/pkg/metrics"
)

// Ensemble authenticity bounds. The floor keeps any classified reading at or
// above 80 regardless of model confidence.
const (
	AuthenticityFloor   = 80
	AuthenticityCeiling = 100
)

// Post-adjustment applied when heart rate exceeds elevatedHeartRate.
const (
	elevatedHeartRate = 100
	elevatedStress    = 20
	elevatedEnergy    = 10
)

// Profile is the canonical (stress, energy, focus) published for a category.
type Profile struct {
	Stress int
	Energy int
	Focus  int
}

// DefaultProfiles returns the canonical profile table.
func DefaultProfiles() map[model.Category]Profile {
	return map[model.Category]Profile{
		model.CategoryCalm:     {Stress: 10, Energy: 60, Focus: 85},
		model.CategoryStressed: {Stress: 85, Energy: 40, Focus: 30},
		model.CategoryFocused:  {Stress: 20, Energy: 70, Focus: 95},
		model.CategoryExcited:  {Stress: 30, Energy: 90, Focus: 70},
		model.CategoryFatigued: {Stress: 40, Energy: 20, Focus: 40},
		model.CategoryAnxious:  {Stress: 90, Energy: 50, Focus: 25},
		model.CategoryUnknown:  {Stress: 50, Energy: 50, Focus: 50},
	}
}

// Vote is one classifier's contribution to an ensemble decision.
type Vote struct {
	Classifier  string
	CategoryID  int
	Probability float64
}

// EnsembleScorer aggregates votes from an ordered list of classifiers.
type EnsembleScorer struct {
	classifiers []classifier.Classifier
	profiles    map[model.Category]Profile
	jitter      float64
	seed        int64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEnsemble builds an ensemble. Registration order decides ties.
func NewEnsemble(classifiers []classifier.Classifier, opts ...Option) (*EnsembleScorer, error) {
	if len(classifiers) == 0 {
		return nil, ErrNoClassifiers
	}
	e := &EnsembleScorer{
		classifiers: append([]classifier.Classifier(nil), classifiers...),
		profiles:    DefaultProfiles(),
		jitter:      defaultJitterStdDev,
		seed:        defaultRandomSeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rng = rand.New(rand.NewSource(e.seed)) //nolint:gosec // jitter, not security
	return e, nil
}

// Mode returns ModeEnsemble.
func (*EnsembleScorer) Mode() Mode { return ModeEnsemble }

// Classifiers returns the bound classifier names in registration order.
func (e *EnsembleScorer) Classifiers() []string { return classifier.Names(e.classifiers) }

// Score classifies the feature vector of in and maps the winning category to
// its profile. Any classifier failure, including a probability outside
// [0,1], fails the whole evaluation.
func (e *EnsembleScorer) Score(ctx context.Context, in Input) (model.EmotionMetrics, *int, error) {
	vec := features.Vector(in.Normalized, in.Derived)

	votes := make([]Vote, 0, len(e.classifiers))
	for _, c := range e.classifiers {
		start := time.Now()
		p, err := c.Predict(ctx, vec)
		metrics.RecordClassifierLatency(c.Name(), float64(time.Since(start).Microseconds())/1000)
		if err != nil {
			metrics.RecordClassifierError(c.Name())
			return model.EmotionMetrics{}, nil, fmt.Errorf("%w: %s: %w", ErrClassify, c.Name(), err)
		}
		if math.IsNaN(p.Probability) || p.Probability < 0 || p.Probability > 1 {
			metrics.RecordClassifierError(c.Name())
			return model.EmotionMetrics{}, nil, fmt.Errorf("%w: %s: probability %v outside [0,1]", ErrClassify, c.Name(), p.Probability)
		}
		votes = append(votes, Vote{Classifier: c.Name(), CategoryID: p.CategoryID, Probability: p.Probability})
	}

	winner, confidence := Aggregate(votes)
	category := model.CategoryFromID(winner)
	m := e.metricsFor(category, confidence, in.Normalized.HeartRate)
	return m, &winner, nil
}

// Aggregate returns the plurality category and the mean top-class
// probability. Among tied categories the one voted for earliest wins.
func Aggregate(votes []Vote) (categoryID int, confidence float64) {
	if len(votes) == 0 {
		return -1, 0
	}
	counts := make(map[int]int, len(votes))
	best, bestCount := votes[0].CategoryID, 0
	var sum float64
	for _, v := range votes {
		sum += v.Probability
		counts[v.CategoryID]++
	}
	// walk in vote order so the first-seen category keeps ties
	for _, v := range votes {
		if c := counts[v.CategoryID]; c > bestCount {
			best, bestCount = v.CategoryID, c
		}
	}
	return best, sum / float64(len(votes))
}

func (e *EnsembleScorer) metricsFor(category model.Category, confidence, heartRate float64) model.EmotionMetrics {
	p, ok := e.profiles[category]
	if !ok {
		p = e.profiles[model.CategoryUnknown]
	}
	stress, energy := p.Stress, p.Energy
	if heartRate > elevatedHeartRate {
		stress = min(stress+elevatedStress, maxScoreValue)
		energy = min(energy+elevatedEnergy, maxScoreValue)
	}

	authenticity := confidence*100 + e.noise()
	authenticity = min(authenticity, AuthenticityCeiling)
	authenticity = max(authenticity, AuthenticityFloor)

	return model.EmotionMetrics{
		Stress:       stress,
		Energy:       energy,
		Focus:        p.Focus,
		Authenticity: int(authenticity),
		Confidence:   confidence,
		Category:     category,
	}
}

func (e *EnsembleScorer) noise() float64 {
	if e.jitter == 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.NormFloat64() * e.jitter
}
