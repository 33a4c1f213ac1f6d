package cache

import (
	"time"

	"github.com/jonwraymond/reqslots/exchange"
)

// DefaultMaxAge is how long a stored response stays fresh by default.
const DefaultMaxAge = 10 * time.Minute

// DefaultAllowedMethods lists the methods cached by default.
var DefaultAllowedMethods = []string{"get"}

// Options configures caching.
//
// Zero values mean "use the default", except Enable where nil means enabled.
type Options struct {
	// Enable turns caching off when set to false.
	Enable *bool

	// MaxAge is how long an entry stays fresh.
	MaxAge time.Duration

	// AllowedMethods lists the lower-case methods eligible for caching.
	AllowedMethods []string

	// Format may reduce the fingerprint before it is hashed. It receives a
	// private copy and may modify it freely. Its result is hashed instead of
	// the FormatConfig.
	Format func(fc *FormatConfig) any
}

// DefaultOptions returns the default caching options.
// MaxAge: 10 minutes, AllowedMethods: get
func DefaultOptions() Options {
	return Options{
		Enable:         exchange.Bool(true),
		MaxAge:         DefaultMaxAge,
		AllowedMethods: DefaultAllowedMethods,
	}
}

// Merge returns o overlaid with a per-request override. Detailed overrides
// replace only the fields they set; forced overrides toggle Enable.
func (o Options) Merge(ov exchange.Override[Options]) Options {
	out := o
	switch ov.Kind() {
	case exchange.ForceEnabled:
		out.Enable = exchange.Bool(true)
	case exchange.ForceDisabled:
		out.Enable = exchange.Bool(false)
	case exchange.Detailed:
		d, _ := ov.Options()
		if d.Enable != nil {
			out.Enable = d.Enable
		}
		if d.MaxAge > 0 {
			out.MaxAge = d.MaxAge
		}
		if d.AllowedMethods != nil {
			out.AllowedMethods = d.AllowedMethods
		}
		if d.Format != nil {
			out.Format = d.Format
		}
	}
	return out
}

// Enabled reports whether caching is not explicitly disabled.
func (o Options) Enabled() bool {
	return o.Enable == nil || *o.Enable
}

// EffectiveMaxAge returns MaxAge or DefaultMaxAge when unset.
func (o Options) EffectiveMaxAge() time.Duration {
	if o.MaxAge <= 0 {
		return DefaultMaxAge
	}
	return o.MaxAge
}

func (o Options) allowedMethods() []string {
	if o.AllowedMethods == nil {
		return DefaultAllowedMethods
	}
	return o.AllowedMethods
}
