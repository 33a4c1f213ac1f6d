package share

import "github.com/jonwraymond/reqslots/exchange"

// DefaultAllowedMethods lists the methods shared by default.
var DefaultAllowedMethods = []string{"get", "head", "put", "patch", "delete"}

// Options configures sharing.
//
// Zero values mean "use the default", except Enable where nil means enabled.
type Options struct {
	// Enable turns sharing off when set to false.
	Enable *bool

	// AllowedMethods lists the lower-case methods eligible for sharing.
	// A ForceEnabled override bypasses this list.
	AllowedMethods []string

	// Format may reduce the fingerprint before it is hashed. It receives a
	// private copy and may modify it freely.
	Format func(fc *FormatConfig) any

	// Validate can veto sharing for an otherwise eligible request.
	Validate func(req *exchange.Request) bool
}

// DefaultOptions returns the default sharing options.
func DefaultOptions() Options {
	return Options{
		Enable:         exchange.Bool(true),
		AllowedMethods: DefaultAllowedMethods,
	}
}

// Merge returns o overlaid with a per-request override.
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
		if d.AllowedMethods != nil {
			out.AllowedMethods = d.AllowedMethods
		}
		if d.Format != nil {
			out.Format = d.Format
		}
		if d.Validate != nil {
			out.Validate = d.Validate
		}
	}
	return out
}

// Enabled reports whether sharing is not explicitly disabled.
func (o Options) Enabled() bool {
	return o.Enable == nil || *o.Enable
}

func (o Options) allowedMethods() []string {
	if o.AllowedMethods == nil {
		return DefaultAllowedMethods
	}
	return o.AllowedMethods
}
