package scoring

import "github.com/okian/emochain/internal/domain/model"

// Default ensemble configuration.
const (
	defaultJitterStdDev = 5.0
	defaultRandomSeed   = 42
)

// Option applies a configuration option to the EnsembleScorer.
type Option func(*EnsembleScorer)

// WithJitter sets the standard deviation of the authenticity jitter.
// Zero disables jitter.
func WithJitter(stddev float64) Option {
	return func(e *EnsembleScorer) {
		if stddev >= 0 {
			e.jitter = stddev
		}
	}
}

// WithSeed seeds the jitter source.
func WithSeed(seed int64) Option {
	return func(e *EnsembleScorer) {
		e.seed = seed
	}
}

// WithProfiles replaces the category profile table.
func WithProfiles(table map[model.Category]Profile) Option {
	return func(e *EnsembleScorer) {
		if len(table) > 0 {
			e.profiles = table
		}
	}
}
