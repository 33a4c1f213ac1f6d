package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.yaml.in/yaml/v2"

	"github.com/jonwraymond/reqslots/auth"
	"github.com/jonwraymond/reqslots/cache"
	"github.com/jonwraymond/reqslots/enhance"
	"github.com/jonwraymond/reqslots/observe"
	"github.com/jonwraymond/reqslots/resilience"
	"github.com/jonwraymond/reqslots/secret"
	"github.com/jonwraymond/reqslots/share"
)

// Config is the root configuration document.
type Config struct {
	BaseURL string            `yaml:"baseURL"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
	Cache   CacheConfig       `yaml:"cache"`
	Share   ShareConfig       `yaml:"share"`
	Retry   RetryConfig       `yaml:"retry"`
	Limits  LimitsConfig      `yaml:"limits"`
	Observe ObserveConfig     `yaml:"observe"`
	Auth    AuthConfig        `yaml:"auth"`
	Secrets SecretsConfig     `yaml:"secrets"`
}

// SecretsConfig selects the providers behind secretref: references.
// Each key names a provider in secret.DefaultRegistry; its value holds the
// provider's settings (env: prefix, file: dir). When empty, every built-in
// provider is available with default settings.
type SecretsConfig struct {
	Providers map[string]map[string]any `yaml:"providers"`
}

// CacheConfig configures the cache engine.
type CacheConfig struct {
	Enable         *bool         `yaml:"enable"`
	MaxAge         time.Duration `yaml:"maxAge"`
	AllowedMethods []string      `yaml:"allowedMethods"`
}

// ShareConfig configures the share engine.
type ShareConfig struct {
	Enable         *bool    `yaml:"enable"`
	AllowedMethods []string `yaml:"allowedMethods"`
}

// RetryConfig configures retry eligibility.
type RetryConfig struct {
	Enable            *bool         `yaml:"enable"`
	MaxTimes          *int          `yaml:"maxTimes"`
	Delay             time.Duration `yaml:"delay"`
	AllowedMethods    []string      `yaml:"allowedMethods"`
	AllowedHTTPStatus []StatusEntry `yaml:"allowedHTTPStatus"`
}

// LimitsConfig configures the per-attempt guards. Zero disables a guard.
type LimitsConfig struct {
	MaxConcurrent int           `yaml:"maxConcurrent"`
	MaxWait       time.Duration `yaml:"maxWait"`
	RateLimit     float64       `yaml:"rateLimit"`
	Burst         int           `yaml:"burst"`
	WaitOnLimit   bool          `yaml:"waitOnLimit"`
}

// ObserveConfig mirrors observe.Config in YAML form.
type ObserveConfig struct {
	ServiceName string `yaml:"serviceName"`
	Version     string `yaml:"version"`
	Tracing     struct {
		Enabled   bool    `yaml:"enabled"`
		Exporter  string  `yaml:"exporter"`
		SamplePct float64 `yaml:"samplePct"`
	} `yaml:"tracing"`
	Metrics struct {
		Enabled  bool   `yaml:"enabled"`
		Exporter string `yaml:"exporter"`
	} `yaml:"metrics"`
	Logging struct {
		Enabled bool   `yaml:"enabled"`
		Level   string `yaml:"level"`
	} `yaml:"logging"`
}

// Enabled reports whether any telemetry is configured.
func (o ObserveConfig) Enabled() bool {
	return o.Tracing.Enabled || o.Metrics.Enabled || o.Logging.Enabled
}

// ToObserve converts to observe.Config.
func (o ObserveConfig) ToObserve() observe.Config {
	var cfg observe.Config
	cfg.ServiceName = o.ServiceName
	cfg.Version = o.Version
	cfg.Tracing.Enabled = o.Tracing.Enabled
	cfg.Tracing.Exporter = o.Tracing.Exporter
	cfg.Tracing.SamplePct = o.Tracing.SamplePct
	cfg.Metrics.Enabled = o.Metrics.Enabled
	cfg.Metrics.Exporter = o.Metrics.Exporter
	cfg.Logging.Enabled = o.Logging.Enabled
	cfg.Logging.Level = o.Logging.Level
	return cfg
}

// AuthConfig selects an auth scheme from auth.DefaultRegistry.
type AuthConfig struct {
	Type     string         `yaml:"type"`
	Settings map[string]any `yaml:"settings"`
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML data. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &cfg, nil
}

// Resolve expands environment variables and secret references in the
// base URL, headers and auth settings. A nil resolver means one built from
// the secrets section.
func (c *Config) Resolve(ctx context.Context, r *secret.Resolver) error {
	var err error
	if r == nil {
		if r, err = secret.DefaultRegistry.Resolver(c.Secrets.Providers); err != nil {
			return fmt.Errorf("config: secrets: %w", err)
		}
	}

	if c.BaseURL, err = r.ResolveValue(ctx, c.BaseURL); err != nil {
		return fmt.Errorf("config: baseURL: %w", err)
	}
	if c.Headers, err = r.ResolveMap(ctx, c.Headers); err != nil {
		return fmt.Errorf("config: headers: %w", err)
	}
	if c.Auth.Settings != nil {
		resolved, err := r.ResolveAny(ctx, c.Auth.Settings)
		if err != nil {
			return fmt.Errorf("config: auth: %w", err)
		}
		c.Auth.Settings = resolved.(map[string]any)
	}
	return nil
}

// Validate reports every problem in the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: timeout must not be negative", ErrInvalidValue))
	}
	if c.Cache.MaxAge < 0 {
		errs = append(errs, fmt.Errorf("%w: cache.maxAge must not be negative", ErrInvalidValue))
	}
	if c.Retry.MaxTimes != nil && *c.Retry.MaxTimes < 0 {
		errs = append(errs, fmt.Errorf("%w: retry.maxTimes must not be negative", ErrInvalidValue))
	}
	if err := c.retryOptions().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("retry.allowedHTTPStatus: %w", err))
	}
	if c.Limits.MaxConcurrent < 0 || c.Limits.RateLimit < 0 || c.Limits.Burst < 0 || c.Limits.MaxWait < 0 {
		errs = append(errs, fmt.Errorf("%w: limits must not be negative", ErrInvalidValue))
	}
	if c.Observe.Enabled() {
		cfg := c.Observe.ToObserve()
		if err := cfg.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("observe: %w", err))
		}
	}
	if c.Auth.Type != "" {
		if _, err := auth.DefaultRegistry.Create(c.Auth.Type, c.Auth.Settings); err != nil {
			errs = append(errs, fmt.Errorf("auth: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) retryOptions() resilience.RetryOptions {
	opts := resilience.RetryOptions{
		Enable:         c.Retry.Enable,
		MaxTimes:       c.Retry.MaxTimes,
		Delay:          c.Retry.Delay,
		AllowedMethods: c.Retry.AllowedMethods,
	}
	for _, s := range c.Retry.AllowedHTTPStatus {
		opts.AllowedHTTPStatus = append(opts.AllowedHTTPStatus, s.Range())
	}
	return opts
}

// Options converts the configuration to client options. Telemetry and
// auth are not included; see ObserveConfig.ToObserve and Decorator.
func (c *Config) Options() []enhance.Option {
	cacheOpts := cache.DefaultOptions()
	if c.Cache.Enable != nil {
		cacheOpts.Enable = c.Cache.Enable
	}
	if c.Cache.MaxAge > 0 {
		cacheOpts.MaxAge = c.Cache.MaxAge
	}
	if c.Cache.AllowedMethods != nil {
		cacheOpts.AllowedMethods = c.Cache.AllowedMethods
	}

	shareOpts := share.DefaultOptions()
	if c.Share.Enable != nil {
		shareOpts.Enable = c.Share.Enable
	}
	if c.Share.AllowedMethods != nil {
		shareOpts.AllowedMethods = c.Share.AllowedMethods
	}

	opts := []enhance.Option{
		enhance.WithCache(cacheOpts),
		enhance.WithShare(shareOpts),
		enhance.WithRetry(c.retryOptions()),
	}
	if c.BaseURL != "" {
		opts = append(opts, enhance.WithBaseURL(c.BaseURL))
	}
	if c.Limits.MaxConcurrent > 0 {
		opts = append(opts, enhance.WithMaxConcurrent(c.Limits.MaxConcurrent, c.Limits.MaxWait))
	}
	if c.Limits.RateLimit > 0 {
		opts = append(opts, enhance.WithRateLimit(resilience.RateLimiterConfig{
			Rate:        c.Limits.RateLimit,
			Burst:       c.Limits.Burst,
			WaitOnLimit: c.Limits.WaitOnLimit,
			MaxWait:     c.Limits.MaxWait,
		}))
	}
	return opts
}

// HTTPHeaders returns the configured default headers.
func (c *Config) HTTPHeaders() http.Header {
	h := make(http.Header, len(c.Headers))
	for k, v := range c.Headers {
		h.Set(k, v)
	}
	return h
}

// Decorator builds the configured auth decorator, or nil when no auth
// type is set.
func (c *Config) Decorator() (auth.Decorator, error) {
	if c.Auth.Type == "" {
		return nil, nil
	}
	return auth.DefaultRegistry.Create(c.Auth.Type, c.Auth.Settings)
}
