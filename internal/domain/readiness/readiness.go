// Package readiness turns emotion metrics into a consensus admission decision.
package readiness

import "github.com/okian/emochain/internal/domain/model"

// Recommendations, one per tier.
const (
	RecommendExcellent       = "Excellent consensus readiness. Participate immediately."
	RecommendGood            = "Good consensus readiness. Safe to participate."
	RecommendModerate        = "Moderate readiness. Consider brief relaxation before consensus."
	RecommendLowAuthenticity = "Low authenticity detected. Check biometric sensors."
	RecommendHighStress      = "High stress detected. Recommend stress reduction techniques."
	RecommendLowReadiness    = "Low readiness. Take time for emotional regulation."
)

// Band awards Points when a value reaches Min.
type Band struct {
	Min    int
	Points int
}

// Range awards Points when a value lies in [Lo, Hi].
type Range struct {
	Lo, Hi int
	Points int
}

// Policy holds every threshold and weight of the gate. Bands and ranges are
// checked in order and the first match scores.
type Policy struct {
	// Authenticity bands, highest first; AuthenticityBase applies when none match.
	Authenticity     []Band
	AuthenticityBase int
	// Stress bands award points when stress is strictly below Min.
	Stress []Band
	Focus  []Band
	Energy []Range
	// ConfidencePoints apply when confidence reaches MinConfidence.
	MinConfidence    float64
	ConfidencePoints int

	// Threshold is the minimum score for consensus readiness.
	Threshold int

	// Recommendation tiers.
	ExcellentScore  int
	GoodScore       int
	ModerateScore   int
	LowAuthenticity int
	HighStress      int
}

// DefaultPolicy returns the standard gate policy.
func DefaultPolicy() Policy {
	return Policy{
		Authenticity:     []Band{{Min: 90, Points: 40}, {Min: 80, Points: 25}},
		AuthenticityBase: 10,
		Stress:           []Band{{Min: 50, Points: 20}, {Min: 70, Points: 10}},
		Focus:            []Band{{Min: 70, Points: 20}, {Min: 50, Points: 10}},
		Energy:           []Range{{Lo: 40, Hi: 80, Points: 15}, {Lo: 30, Hi: 90, Points: 10}},
		MinConfidence:    0.8,
		ConfidencePoints: 5,
		Threshold:        70,
		ExcellentScore:   80,
		GoodScore:        70,
		ModerateScore:    50,
		LowAuthenticity:  80,
		HighStress:       70,
	}
}

// Gate evaluates metrics against a Policy. It is immutable and safe for
// concurrent use.
type Gate struct {
	policy Policy
}

// New creates a gate with the given policy.
func New(policy Policy) *Gate {
	return &Gate{policy: policy}
}

// Policy returns the gate policy.
func (g *Gate) Policy() Policy { return g.policy }

// Evaluate scores m and decides readiness.
func (g *Gate) Evaluate(m model.EmotionMetrics) model.ReadinessDecision {
	score := g.Score(m)
	return model.ReadinessDecision{
		ConsensusReady: score >= g.policy.Threshold,
		ReadinessScore: score,
		Recommendation: g.Recommend(score, m),
		Metrics:        m,
	}
}

// Score returns the additive readiness score for m.
func (g *Gate) Score(m model.EmotionMetrics) int {
	p := g.policy
	score := p.AuthenticityBase
	for _, b := range p.Authenticity {
		if m.Authenticity >= b.Min {
			score = b.Points
			break
		}
	}
	for _, b := range p.Stress {
		if m.Stress < b.Min {
			score += b.Points
			break
		}
	}
	for _, b := range p.Focus {
		if m.Focus >= b.Min {
			score += b.Points
			break
		}
	}
	for _, r := range p.Energy {
		if m.Energy >= r.Lo && m.Energy <= r.Hi {
			score += r.Points
			break
		}
	}
	if m.Confidence >= p.MinConfidence {
		score += p.ConfidencePoints
	}
	return score
}

// Recommend picks the first matching recommendation tier.
func (g *Gate) Recommend(score int, m model.EmotionMetrics) string {
	p := g.policy
	switch {
	case score >= p.ExcellentScore:
		return RecommendExcellent
	case score >= p.GoodScore:
		return RecommendGood
	case score >= p.ModerateScore:
		return RecommendModerate
	case m.Authenticity < p.LowAuthenticity:
		return RecommendLowAuthenticity
	case m.Stress > p.HighStress:
		return RecommendHighStress
	default:
		return RecommendLowReadiness
	}
}
