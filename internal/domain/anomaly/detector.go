// Package anomaly flags biometric readings that look spoofed or implausible.
package anomaly

import (
	"math"

	"github.com/okian/emochain/internal/domain/model"
)

// Anomaly tags.
const (
	TagImpossibleHeartRate     = "impossible_heart_rate"
	TagArtificialPattern       = "artificial_pattern"
	TagInconsistentCorrelation = "inconsistent_correlation"
	TagMovementHRMismatch      = "movement_hr_mismatch"
	TagExtremeDeviation        = "extreme_deviation"
)

// Default detector settings.
const (
	defaultThreshold       = 0.5
	defaultMinBaseline     = 5
	defaultDeviationLimit  = 50.0
	extremeDeviationWeight = 0.3
)

// Rule is one stateless check against a single snapshot.
type Rule struct {
	Tag    string
	Weight float64
	Match  func(n model.NormalizedSnapshot) bool
}

// DefaultRules returns the single-snapshot anti-spoofing rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Tag:    TagImpossibleHeartRate,
			Weight: 0.5,
			Match:  func(n model.NormalizedSnapshot) bool { return n.HeartRate < 30 || n.HeartRate > 220 },
		},
		{
			// suspiciously round sensor output
			Tag:    TagArtificialPattern,
			Weight: 0.2,
			Match: func(n model.NormalizedSnapshot) bool {
				return math.Mod(n.HeartRate, 5) == 0 && math.Mod(n.HeartRate, 10) == 0
			},
		},
		{
			Tag:    TagInconsistentCorrelation,
			Weight: 0.3,
			Match:  func(n model.NormalizedSnapshot) bool { return n.HeartRate > 120 && n.HRV > 50 },
		},
		{
			Tag:    TagMovementHRMismatch,
			Weight: 0.4,
			Match:  func(n model.NormalizedSnapshot) bool { return n.HeartRate > 140 && n.Movement < 0.05 },
		},
	}
}

// Detector evaluates every rule against a snapshot and, when enough history
// exists, compares heart rate against the historical baseline.
type Detector struct {
	rules          []Rule
	threshold      float64
	minBaseline    int
	deviationLimit float64
}

// NewDetector creates a detector with the default rules.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		rules:          DefaultRules(),
		threshold:      defaultThreshold,
		minBaseline:    defaultMinBaseline,
		deviationLimit: defaultDeviationLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect scores n. history holds prior readings for the same subject, oldest first.
func (d *Detector) Detect(n model.NormalizedSnapshot, history []model.NormalizedSnapshot) model.AnomalyReport {
	report := model.AnomalyReport{AnomalyTypes: []string{}}

	for _, r := range d.rules {
		if r.Match(n) {
			report.AnomalyScore += r.Weight
			report.AnomalyTypes = append(report.AnomalyTypes, r.Tag)
		}
	}

	if len(history) > d.minBaseline {
		if math.Abs(n.HeartRate-baselineHR(history)) > d.deviationLimit {
			report.AnomalyScore += extremeDeviationWeight
			report.AnomalyTypes = append(report.AnomalyTypes, TagExtremeDeviation)
		}
	}

	report.HasAnomaly = report.AnomalyScore > d.threshold
	report.Confidence = math.Max(0, 1-report.AnomalyScore)
	return report
}

func baselineHR(history []model.NormalizedSnapshot) float64 {
	var sum float64
	for _, h := range history {
		sum += h.HeartRate
	}
	return sum / float64(len(history))
}
