package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

// ClientCredentialsConfig configures an OAuth2 client-credentials source.
type ClientCredentialsConfig struct {
	// TokenURL is the token endpoint.
	TokenURL string

	ClientID     string
	ClientSecret string

	// Scopes are sent space-separated in the scope parameter.
	Scopes []string

	// ClientAuthMethod is how the client authenticates to the endpoint.
	// Options: "client_secret_basic" (default), "client_secret_post"
	ClientAuthMethod string

	// RefreshBefore is how long before expiry a new token is fetched.
	// Default: 30 seconds
	RefreshBefore time.Duration

	// HTTPClient is the client used for token requests.
	// If nil, a default client with 10s timeout is used.
	HTTPClient *http.Client

	// Now defaults to time.Now.
	Now func() time.Time
}

// ClientCredentialsSource fetches and caches OAuth2 access tokens.
// Concurrent refreshes are coalesced into one token request.
type ClientCredentialsSource struct {
	config ClientCredentialsConfig
	grant  *clientcredentials.Config

	mu      sync.RWMutex
	token   string
	expires time.Time
	sf      singleflight.Group
}

// NewClientCredentialsSource creates a client-credentials token source.
func NewClientCredentialsSource(config ClientCredentialsConfig) (*ClientCredentialsSource, error) {
	if config.TokenURL == "" || config.ClientID == "" {
		return nil, ErrMissingCredentials
	}
	if config.ClientAuthMethod == "" {
		config.ClientAuthMethod = "client_secret_basic"
	}
	style := oauth2.AuthStyleInHeader
	switch config.ClientAuthMethod {
	case "client_secret_basic":
	case "client_secret_post":
		style = oauth2.AuthStyleInParams
	default:
		return nil, fmt.Errorf("auth: unsupported client_auth_method %q", config.ClientAuthMethod)
	}
	if config.RefreshBefore <= 0 {
		config.RefreshBefore = 30 * time.Second
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &ClientCredentialsSource{
		config: config,
		grant: &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.TokenURL,
			Scopes:       config.Scopes,
			AuthStyle:    style,
		},
	}, nil
}

// Token returns a cached token or fetches a new one.
func (s *ClientCredentialsSource) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expires := s.token, s.expires
	s.mu.RUnlock()
	if token != "" && s.config.Now().Before(expires.Add(-s.config.RefreshBefore)) {
		return token, nil
	}

	v, err, _ := s.sf.Do("token", func() (any, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *ClientCredentialsSource) fetch(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.config.HTTPClient)
	tok, err := s.grant.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenFetchFailed, err)
	}

	// Expiry is measured on the configured clock.
	expires := s.config.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	if tok.ExpiresIn <= 0 {
		expires = s.config.Now().Add(2 * s.config.RefreshBefore)
	}

	s.mu.Lock()
	s.token, s.expires = tok.AccessToken, expires
	s.mu.Unlock()
	return tok.AccessToken, nil
}

// Ensure ClientCredentialsSource implements TokenSource
var _ TokenSource = (*ClientCredentialsSource)(nil)
