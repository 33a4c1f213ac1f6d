package auth

import "context"

// TokenSource supplies bearer tokens.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: a source that cannot produce a token returns an error, never "".
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token calls f.
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return TokenSourceFunc(func(context.Context) (string, error) {
		if token == "" {
			return "", ErrMissingCredentials
		}
		return token, nil
	})
}
