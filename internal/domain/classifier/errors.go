package classifier

import "errors"

// Sentinel errors for classifier construction and inference.
var (
	ErrInvalidModel    = errors.New("invalid model")
	ErrInvalidFeatures = errors.New("invalid feature vector")
	ErrLoadModels      = errors.New("load models failed")
)
