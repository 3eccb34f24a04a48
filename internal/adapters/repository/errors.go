package repository

import "errors"

// Sentinel kinds for decision store errors.
var (
	ErrNotFound         = errors.New("validator not found")
	ErrInvalidLimit     = errors.New("invalid limit")
	ErrMissingValidator = errors.New("assessment has no validator id")
)
