// Package quality scores how trustworthy a normalized reading looks.
package quality

import "github.com/okian/emochain/internal/domain/model"

// Rule deducts Penalty from the score when Match holds.
type Rule struct {
	Name    string
	Penalty float64
	Match   func(n model.NormalizedSnapshot) bool
}

// Rules are independent and additive; several may apply to one snapshot.
var Rules = []Rule{
	{
		Name:    "heart_rate_out_of_range",
		Penalty: 0.2,
		Match:   func(n model.NormalizedSnapshot) bool { return n.HeartRate < 50 || n.HeartRate > 150 },
	},
	{
		Name:    "hrv_out_of_range",
		Penalty: 0.1,
		Match:   func(n model.NormalizedSnapshot) bool { return n.HRV < 10 || n.HRV > 80 },
	},
	{
		// high cardiac activation without motion
		Name:    "still_tachycardia",
		Penalty: 0.3,
		Match:   func(n model.NormalizedSnapshot) bool { return n.HeartRate > 120 && n.Movement < 0.1 },
	},
}

// Assess returns a quality score in [0, 1] for n.
func Assess(n model.NormalizedSnapshot) float64 {
	score := 1.0
	for _, r := range Rules {
		if r.Match(n) {
			score -= r.Penalty
		}
	}
	if score < 0 {
		return 0
	}
	return score
}
