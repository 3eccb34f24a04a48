package repository

import "time"

// Option applies a configuration option to the DecisionStore.
type Option func(*DecisionStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *DecisionStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithMaxScore sets the highest readiness score indexed in its own bucket.
// Higher scores share the top bucket.
func WithMaxScore(maxScore int) Option {
	return func(s *DecisionStore) {
		if maxScore > 0 {
			s.maxScore = maxScore
		}
	}
}
