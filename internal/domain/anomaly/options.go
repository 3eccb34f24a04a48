package anomaly

// Option configures a Detector.
type Option func(*Detector)

// WithRules replaces the single-snapshot rule set.
func WithRules(rules []Rule) Option {
	return func(d *Detector) {
		if rules != nil {
			d.rules = rules
		}
	}
}

// WithThreshold sets the score above which a report is flagged.
func WithThreshold(t float64) Option {
	return func(d *Detector) {
		if t > 0 {
			d.threshold = t
		}
	}
}

// WithDeviationLimit sets the allowed heart-rate distance from the baseline.
func WithDeviationLimit(limit float64) Option {
	return func(d *Detector) {
		if limit > 0 {
			d.deviationLimit = limit
		}
	}
}
