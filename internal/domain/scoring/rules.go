package scoring

import (
	"context"
	"math"

	"github.com/okian/emochain/internal/domain/model"
)

// RuleConfidence is the fixed confidence reported in rule mode.
const RuleConfidence = 0.85

// RuleScorer is the deterministic fallback strategy. It has no state.
type RuleScorer struct{}

// NewRuleScorer returns a RuleScorer.
func NewRuleScorer() *RuleScorer { return &RuleScorer{} }

// Mode returns ModeRules.
func (*RuleScorer) Mode() Mode { return ModeRules }

// Score applies the threshold rules to in.Normalized. It never fails.
func (*RuleScorer) Score(_ context.Context, in Input) (model.EmotionMetrics, *int, error) {
	return ScoreRules(in.Normalized), nil, nil
}

// ScoreRules computes rule-based metrics for n.
func ScoreRules(n model.NormalizedSnapshot) model.EmotionMetrics {
	hr, hrv, sc, mv := n.HeartRate, n.HRV, n.SkinConductance, n.Movement

	stress := 0
	if hr > 100 {
		stress += 30
	}
	if hr > 120 {
		stress += 20
	}
	if hrv < 20 {
		stress += 25
	}
	if sc > 0.7 {
		stress += 25
	}
	stress = min(stress, maxScoreValue)

	energy := 50
	if hr >= 80 && hr <= 100 {
		energy += 20
	}
	if mv > 0.5 {
		energy += 15
	}
	if hrv > 40 {
		energy += 15
	}
	energy = min(energy, maxScoreValue)

	focus := 70
	if hrv > 30 && stress < 30 {
		focus += 20
	}
	if stress > 70 {
		focus -= 30
	}
	if mv < 0.2 {
		focus += 10
	}
	focus = clampInt(focus, 0, maxScoreValue)

	authenticity := 100
	if math.Mod(hr, 5) == 0 {
		authenticity -= 10
	}
	if hr < model.MinHeartRate || hr > model.MaxHeartRate {
		authenticity -= 30
	}
	authenticity = max(authenticity, 0)

	return model.EmotionMetrics{
		Stress:       stress,
		Energy:       energy,
		Focus:        focus,
		Authenticity: authenticity,
		Confidence:   RuleConfidence,
		Category:     model.CategoryRuleBased,
	}
}
