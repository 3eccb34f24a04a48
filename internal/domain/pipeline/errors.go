package pipeline

import "errors"

// Sentinel errors.
var (
	// ErrInternal marks an unexpected failure inside the pipeline.
	ErrInternal = errors.New("internal pipeline failure")
	// ErrScore wraps scorer failures.
	ErrScore = errors.New("scoring failed")
)
