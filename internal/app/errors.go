package service

import "github.com/okian/emochain/internal/domain/types"

// Sentinel kinds for service errors.
var (
	ErrNotStarted       = types.ErrNotStarted
	ErrNotFound         = types.ErrNotFound
	ErrMissingValidator = types.ErrMissingValidator
	ErrBackpressure     = types.ErrBackpressure
)
