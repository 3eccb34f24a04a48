// Package model contains domain models passed between layers.
package model

import "time"

// AssessmentJob represents a snapshot submitted for asynchronous assessment.
type AssessmentJob struct {
	JobID       string            // unique id returned to the submitter
	ValidatorID string            // subject the snapshot belongs to
	Snapshot    BiometricSnapshot // raw sensor reading
	SubmittedAt time.Time         // enqueue timestamp
}
