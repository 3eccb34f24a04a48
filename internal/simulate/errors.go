package simulate

import "errors"

var (
	// ErrInvalidConfig reports a run configuration that cannot be simulated.
	ErrInvalidConfig = errors.New("invalid simulation config")
	// ErrUnhealthy reports a service that failed its health check.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrUnexpectedStatus reports an HTTP status the client does not handle.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrInconsistent reports a readiness listing that breaks its ordering.
	ErrInconsistent = errors.New("inconsistent readiness listing")
)
