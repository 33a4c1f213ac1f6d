package auth

import "errors"

// Sentinel errors for credential handling.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrMissingSigningKey  = errors.New("auth: missing signing key")
	ErrTokenFetchFailed   = errors.New("auth: token fetch failed")
	ErrUnknownScheme      = errors.New("auth: unknown scheme")
)
