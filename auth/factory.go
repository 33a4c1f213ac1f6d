package auth

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/jonwraymond/reqslots/exchange"
)

// Factory creates a Decorator from configuration.
type Factory func(cfg map[string]any) (Decorator, error)

// Registry manages credential factories by scheme name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new auth registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return errors.New("invalid credential registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("scheme %q already registered", name)
	}

	r.factories[name] = factory
	return nil
}

// Create instantiates a Decorator by scheme name.
func (r *Registry) Create(name string, cfg map[string]any) (Decorator, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}

	return factory(cfg)
}

// List returns registered scheme names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global auth registry with built-in factories.
var DefaultRegistry = NewRegistry()

func bearer(src TokenSource) Decorator {
	return func(next exchange.Transport) exchange.Transport {
		return BearerTransport(next, src)
	}
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func duration(cfg map[string]any, key string) (time.Duration, error) {
	s, ok := cfg[key].(string)
	if !ok || s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("auth: %s: %w", key, err)
	}
	return d, nil
}

func init() {
	// Register static bearer token
	_ = DefaultRegistry.Register("bearer", func(cfg map[string]any) (Decorator, error) {
		token, _ := cfg["token"].(string)
		if token == "" {
			return nil, fmt.Errorf("%w: bearer token", ErrMissingCredentials)
		}
		return bearer(StaticToken(token)), nil
	})

	// Register API key header
	_ = DefaultRegistry.Register("api_key", func(cfg map[string]any) (Decorator, error) {
		key, _ := cfg["key"].(string)
		if key == "" {
			return nil, fmt.Errorf("%w: api key", ErrMissingCredentials)
		}
		header, _ := cfg["header_name"].(string)
		return func(next exchange.Transport) exchange.Transport {
			return APIKeyTransport(next, header, key)
		}, nil
	})

	// Register locally minted JWT
	_ = DefaultRegistry.Register("jwt", func(cfg map[string]any) (Decorator, error) {
		config := JWTConfig{}

		if secret, ok := cfg["secret"].(string); ok {
			config.Secret = []byte(secret)
		}
		if issuer, ok := cfg["issuer"].(string); ok {
			config.Issuer = issuer
		}
		if audience, ok := cfg["audience"].(string); ok {
			config.Audience = audience
		}
		if subject, ok := cfg["subject"].(string); ok {
			config.Subject = subject
		}
		if kid, ok := cfg["key_id"].(string); ok {
			config.KeyID = kid
		}
		if claims, ok := cfg["claims"].(map[string]any); ok {
			config.Claims = claims
		}
		var err error
		if config.TTL, err = duration(cfg, "ttl"); err != nil {
			return nil, err
		}

		src, err := NewJWTSource(config)
		if err != nil {
			return nil, err
		}
		return bearer(src), nil
	})

	// Register OAuth2 client credentials
	_ = DefaultRegistry.Register("client_credentials", func(cfg map[string]any) (Decorator, error) {
		config := ClientCredentialsConfig{}

		if endpoint, ok := cfg["token_url"].(string); ok {
			config.TokenURL = endpoint
		}
		if clientID, ok := cfg["client_id"].(string); ok {
			config.ClientID = clientID
		}
		if clientSecret, ok := cfg["client_secret"].(string); ok {
			config.ClientSecret = clientSecret
		}
		if authMethod, ok := cfg["client_auth_method"].(string); ok {
			config.ClientAuthMethod = authMethod
		}
		config.Scopes = stringSlice(cfg["scopes"])
		timeout, err := duration(cfg, "timeout")
		if err != nil {
			return nil, err
		}
		if timeout > 0 {
			config.HTTPClient = &http.Client{Timeout: timeout}
		}

		src, err := NewClientCredentialsSource(config)
		if err != nil {
			return nil, err
		}
		return bearer(src), nil
	})
}
