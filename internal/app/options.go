package service

import (
	"github.com/okian/emochain/internal/domain/classifier"
	"github.com/okian/emochain/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the assessment queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many submission keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxSessions caps how many validators keep per-validator state.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithHistorySize sets the anomaly baseline length.
func WithHistorySize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithSmoothingWindow sets the heart-rate smoothing window.
func WithSmoothingWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.smoothingWindow = n
		}
	}
}

// WithModelPath loads classifiers from a model document on Start.
func WithModelPath(path string) Option {
	return func(s *Service) {
		s.modelPath = path
	}
}

// WithBuiltinModels binds the bundled profile classifiers when no model path is set.
func WithBuiltinModels(enabled bool) Option {
	return func(s *Service) {
		s.useBuiltin = enabled
	}
}

// WithClassifiers binds classifiers directly, bypassing model loading.
func WithClassifiers(cs ...classifier.Classifier) Option {
	return func(s *Service) {
		s.classifiers = cs
	}
}

// WithRejectOnAnomaly controls whether an anomaly forces a not-ready decision.
func WithRejectOnAnomaly(reject bool) Option {
	return func(s *Service) {
		s.rejectOnAnomaly = reject
	}
}

// WithReadinessThreshold sets the readiness score needed for consensus.
func WithReadinessThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold >= 0 {
			s.threshold = threshold
		}
	}
}

// WithBatchConcurrency bounds parallel evaluation of batch requests.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithJitterSeed seeds the ensemble authenticity jitter.
func WithJitterSeed(seed int64) Option {
	return func(s *Service) {
		s.jitterSeed = seed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
