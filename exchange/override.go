package exchange

import "context"

// OverrideKind tags an Override.
type OverrideKind int

const (
	// Unset defers entirely to the engine's configured options.
	Unset OverrideKind = iota
	// ForceEnabled enables the engine and bypasses its allowed-methods check.
	ForceEnabled
	// ForceDisabled disables the engine for the request.
	ForceDisabled
	// Detailed overlays explicitly set option fields.
	Detailed
)

func (k OverrideKind) String() string {
	switch k {
	case ForceEnabled:
		return "force-enabled"
	case ForceDisabled:
		return "force-disabled"
	case Detailed:
		return "detailed"
	default:
		return "unset"
	}
}

// Override is a per-request override of an engine's options of type T.
// The zero value is Unset.
type Override[T any] struct {
	kind    OverrideKind
	options T
}

// Force returns a ForceEnabled or ForceDisabled override.
func Force[T any](enable bool) Override[T] {
	if enable {
		return Override[T]{kind: ForceEnabled}
	}
	return Override[T]{kind: ForceDisabled}
}

// With returns a Detailed override.
func With[T any](options T) Override[T] {
	return Override[T]{kind: Detailed, options: options}
}

// Kind returns the override's tag.
func (o Override[T]) Kind() OverrideKind {
	return o.kind
}

// Options returns the detailed options, if any.
func (o Override[T]) Options() (T, bool) {
	return o.options, o.kind == Detailed
}

// Forced reports whether the override forces the engine on regardless of
// the request method.
func (o Override[T]) Forced() bool {
	return o.kind == ForceEnabled
}

type overrideKey[T any] struct{}

// WithOverride returns a context carrying o. Overrides are keyed by their
// option type, so each engine sees only its own.
func WithOverride[T any](ctx context.Context, o Override[T]) context.Context {
	return context.WithValue(ctx, overrideKey[T]{}, o)
}

// OverrideFrom returns the override of type T carried by ctx, or Unset.
func OverrideFrom[T any](ctx context.Context) Override[T] {
	if ctx == nil {
		return Override[T]{}
	}
	o, _ := ctx.Value(overrideKey[T]{}).(Override[T])
	return o
}

// Bool returns a pointer to b, for optional boolean option fields.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to n, for optional integer option fields.
func Int(n int) *int {
	return &n
}
