package pipeline

import (
	"sync"

	"github.com/okian/emochain/internal/domain/anomaly"
	"github.com/okian/emochain/internal/domain/normalize"
)

// Subject is the mutable state of one validator's sensor stream: the heart
// rate smoothing window and the anomaly baseline. Evaluations of one Subject
// are serialized.
type Subject struct {
	ID string

	mu         sync.Mutex
	normalizer *normalize.Normalizer
	history    *anomaly.History
}

// SubjectOption configures a Subject.
type SubjectOption func(*subjectConfig)

type subjectConfig struct {
	window  int
	history int
}

// WithSmoothingWindow sets the heart rate window size.
func WithSmoothingWindow(n int) SubjectOption {
	return func(c *subjectConfig) {
		if n > 0 {
			c.window = n
		}
	}
}

// WithHistorySize sets how many prior readings the anomaly baseline keeps.
func WithHistorySize(n int) SubjectOption {
	return func(c *subjectConfig) {
		if n > 0 {
			c.history = n
		}
	}
}

// NewSubject creates empty state for id.
func NewSubject(id string, opts ...SubjectOption) *Subject {
	c := subjectConfig{}
	for _, opt := range opts {
		opt(&c)
	}
	return &Subject{
		ID:         id,
		normalizer: normalize.New(normalize.WithWindowSize(c.window)),
		history:    anomaly.NewHistory(c.history),
	}
}

// Readings returns how many readings the anomaly baseline holds.
func (s *Subject) Readings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// SmoothingWindow returns the heart rate values currently averaged.
func (s *Subject) SmoothingWindow() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.normalizer.History()
}
