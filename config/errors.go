package config

import "errors"

// Sentinel errors for configuration.
var (
	ErrInvalidStatus = errors.New("config: invalid status entry")
	ErrInvalidValue  = errors.New("config: invalid value")
)
