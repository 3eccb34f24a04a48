package types

import "errors"

// Error kinds shared by the service and its transports.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrNotFound         = errors.New("not found")
	ErrMissingValidator = errors.New("validator_id is required")
	ErrBackpressure     = errors.New("assessment queue is full")
	ErrInvalidLimit     = errors.New("invalid limit")
)
