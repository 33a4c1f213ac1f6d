package secret

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ProviderFactory creates a Provider from configuration.
type ProviderFactory func(cfg map[string]any) (Provider, error)

// ErrInvalidRegistration is returned for an empty name or nil factory.
var ErrInvalidRegistration = errors.New("secret: invalid provider registration")

// Registry maps provider names to factories and assembles Resolvers from
// per-provider settings, as found under secrets.providers in a config file.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

// Register adds factory under name. Names are unique per registry.
func (r *Registry) Register(name string, factory ProviderFactory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return ErrInvalidRegistration
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[name]; dup {
		return fmt.Errorf("%w: %q registered twice", ErrInvalidRegistration, name)
	}
	r.factories[name] = factory
	return nil
}

// Create builds the provider registered as name.
func (r *Registry) Create(name string, cfg map[string]any) (Provider, error) {
	name = strings.TrimSpace(name)
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotRegistered, name)
	}

	p, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("secret: provider %q: %w", name, err)
	}
	return p, nil
}

// Resolver returns a strict Resolver holding one provider per entry of
// specs, keyed by provider name. A nil or empty specs yields every
// registered provider with default settings. Providers built before a
// failure are closed.
func (r *Registry) Resolver(specs map[string]map[string]any) (*Resolver, error) {
	if len(specs) == 0 {
		specs = make(map[string]map[string]any)
		for _, name := range r.List() {
			specs[name] = nil
		}
	}

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	built := make([]Provider, 0, len(names))
	for _, name := range names {
		p, err := r.Create(name, specs[name])
		if err != nil {
			for _, b := range built {
				_ = b.Close()
			}
			return nil, err
		}
		built = append(built, p)
	}
	return NewResolver(true, built...), nil
}

// List returns registered provider names in order.
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

// DefaultRegistry holds the built-in "env" and "file" providers.
var DefaultRegistry = NewRegistry()
