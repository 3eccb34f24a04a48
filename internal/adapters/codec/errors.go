package codec

import "errors"

var (
	// ErrMalformed means the body was not a JSON object.
	ErrMalformed = errors.New("malformed snapshot")
	// ErrMissingValidator means a submission had no validator id.
	ErrMissingValidator = errors.New("validator_id is required")
)
