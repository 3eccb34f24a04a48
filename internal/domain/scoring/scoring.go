// Package scoring turns a normalized biometric reading into emotion metrics.
//
// Two strategies implement Scorer: RuleScorer, which needs nothing but the
// reading, and EnsembleScorer, which delegates classification to an ordered
// list of classifiers and maps the winning category to a fixed profile.
package scoring

import (
	"context"
	"errors"

	"github.com/okian/emochain/internal/domain/classifier"
	"github.com/okian/emochain/internal/domain/model"
)

// Mode names the active scoring strategy.
type Mode string

// Scoring modes.
const (
	ModeRules    Mode = "rule_based"
	ModeEnsemble Mode = "ensemble"
)

const maxScoreValue = 100

// Sentinel errors.
var (
	ErrNoClassifiers = errors.New("ensemble needs at least one classifier")
	ErrClassify      = errors.New("classifier failed")
)

// Input is what a Scorer reads.
type Input struct {
	Normalized model.NormalizedSnapshot
	Derived    model.DerivedFeatures
}

// Scorer computes emotion metrics. The returned category id is non-nil only
// when a classifier vote produced the category.
type Scorer interface {
	Mode() Mode
	Score(ctx context.Context, in Input) (model.EmotionMetrics, *int, error)
}

// Select returns an EnsembleScorer over classifiers, or a RuleScorer when
// none are bound.
func Select(classifiers []classifier.Classifier, opts ...Option) Scorer {
	if len(classifiers) == 0 {
		return NewRuleScorer()
	}
	e, err := NewEnsemble(classifiers, opts...)
	if err != nil {
		return NewRuleScorer()
	}
	return e
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
