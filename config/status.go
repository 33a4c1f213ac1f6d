package config

import (
	"fmt"

	"github.com/jonwraymond/reqslots/resilience"
)

// StatusEntry is one item of retry.allowedHTTPStatus: either a single
// status (503) or an inclusive pair ([500, 599]).
type StatusEntry struct {
	Low, High int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StatusEntry) UnmarshalYAML(unmarshal func(any) error) error {
	var code int
	if err := unmarshal(&code); err == nil {
		s.Low, s.High = code, code
		return nil
	}

	var pair []int
	if err := unmarshal(&pair); err != nil {
		return fmt.Errorf("%w: want status or [low, high]", ErrInvalidStatus)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: range needs exactly two bounds, got %d", ErrInvalidStatus, len(pair))
	}
	s.Low, s.High = pair[0], pair[1]
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s StatusEntry) MarshalYAML() (any, error) {
	if s.Low == s.High {
		return s.Low, nil
	}
	return []int{s.Low, s.High}, nil
}

// Range converts the entry to a resilience.StatusRange.
func (s StatusEntry) Range() resilience.StatusRange {
	return resilience.Range(s.Low, s.High)
}
