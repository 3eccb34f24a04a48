// Package repository keeps the latest readiness decision of every validator,
// ranked by readiness score.
package repository

import (
	"context"
	"time"

	"github.com/okian/emochain/internal/domain/model"
)

// Entry is one row of the readiness ranking.
type Entry struct {
	Rank           int
	ValidatorID    string
	ReadinessScore int
	ConsensusReady bool
	Category       model.Category
	AssessmentID   string
	UpdatedAt      time.Time
}

// Store provides read/write access to the latest decisions.
type Store interface {
	// Put stores a as the latest assessment of its validator. Assessments
	// older than the stored one are ignored and Put returns false.
	Put(ctx context.Context, a model.Assessment) (bool, error)

	// Get returns the latest assessment of a validator or ErrNotFound.
	Get(ctx context.Context, validatorID string) (model.Assessment, error)

	// Rank returns the validator's position among all validators.
	Rank(ctx context.Context, validatorID string) (Entry, error)

	// TopN returns up to n entries by readiness score desc, then validator id
	// asc. With readyOnly only consensus-ready validators are listed.
	TopN(ctx context.Context, n int, readyOnly bool) ([]Entry, error)

	// Count returns the number of validators with a stored decision.
	Count(ctx context.Context) int

	// ReadyCount returns how many of them are consensus ready.
	ReadyCount(ctx context.Context) int
}
