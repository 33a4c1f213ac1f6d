package auth

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures a JWTSource.
type JWTConfig struct {
	// Secret is the HS256 signing key.
	Secret []byte

	// Issuer sets the iss claim when non-empty.
	Issuer string

	// Audience sets the aud claim when non-empty.
	Audience string

	// Subject sets the sub claim when non-empty.
	Subject string

	// KeyID sets the kid header when non-empty.
	KeyID string

	// TTL is the token lifetime.
	// Default: 5 minutes
	TTL time.Duration

	// RefreshBefore is how long before expiry a new token is minted.
	// Default: 30 seconds
	RefreshBefore time.Duration

	// Claims are extra claims copied into every token.
	Claims map[string]any

	// Now defaults to time.Now.
	Now func() time.Time
}

// JWTSource mints HS256 tokens and reuses each one until it nears expiry.
type JWTSource struct {
	config JWTConfig

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewJWTSource creates a JWT token source.
func NewJWTSource(config JWTConfig) (*JWTSource, error) {
	if len(config.Secret) == 0 {
		return nil, ErrMissingSigningKey
	}
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	if config.RefreshBefore <= 0 {
		config.RefreshBefore = 30 * time.Second
	}
	if config.RefreshBefore >= config.TTL {
		config.RefreshBefore = config.TTL / 2
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &JWTSource{config: config}, nil
}

// Token returns the current token, minting a new one when needed.
func (s *JWTSource) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.config.Now()
	if s.token != "" && now.Before(s.expires.Add(-s.config.RefreshBefore)) {
		return s.token, nil
	}

	expires := now.Add(s.config.TTL)
	claims := jwt.MapClaims{}
	maps.Copy(claims, s.config.Claims)
	claims["iat"] = now.Unix()
	claims["exp"] = expires.Unix()
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}
	if s.config.Audience != "" {
		claims["aud"] = s.config.Audience
	}
	if s.config.Subject != "" {
		claims["sub"] = s.config.Subject
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.config.KeyID != "" {
		token.Header["kid"] = s.config.KeyID
	}
	signed, err := token.SignedString(s.config.Secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign jwt: %w", err)
	}

	s.token, s.expires = signed, expires
	return signed, nil
}

// Ensure JWTSource implements TokenSource
var _ TokenSource = (*JWTSource)(nil)
