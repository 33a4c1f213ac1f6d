package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrNilTransport is returned when a Loop is built without a transport.
	ErrNilTransport = errors.New("resilience: transport is nil")

	// ErrInvalidStatusRange is returned for a status range whose low bound
	// exceeds its high bound or lies outside 100-599.
	ErrInvalidStatusRange = errors.New("resilience: invalid status range")

	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")
)
