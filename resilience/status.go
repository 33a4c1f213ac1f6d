package resilience

import (
	"fmt"
	"strconv"
)

// StatusRange is an inclusive range of HTTP status codes. A single status
// is a range whose bounds are equal.
type StatusRange struct {
	Low  int
	High int
}

// Status returns a range matching exactly code.
func Status(code int) StatusRange {
	return StatusRange{Low: code, High: code}
}

// Range returns the inclusive range [low, high].
func Range(low, high int) StatusRange {
	return StatusRange{Low: low, High: high}
}

// Contains reports whether code lies in r.
func (r StatusRange) Contains(code int) bool {
	return code >= r.Low && code <= r.High
}

// Validate checks that r is a well-formed HTTP status range.
func (r StatusRange) Validate() error {
	if r.Low < 100 || r.High > 599 || r.Low > r.High {
		return fmt.Errorf("%w: %s", ErrInvalidStatusRange, r)
	}
	return nil
}

func (r StatusRange) String() string {
	if r.Low == r.High {
		return strconv.Itoa(r.Low)
	}
	return "[" + strconv.Itoa(r.Low) + "," + strconv.Itoa(r.High) + "]"
}

// DefaultAllowedHTTPStatus lists the statuses retried by default:
// informational, 429 and server errors.
var DefaultAllowedHTTPStatus = []StatusRange{
	Range(100, 199),
	Status(429),
	Range(500, 599),
}

func statusAllowed(code int, allowed []StatusRange) bool {
	for _, r := range allowed {
		if r.Contains(code) {
			return true
		}
	}
	return false
}
