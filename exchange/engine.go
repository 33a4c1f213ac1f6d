package exchange

import (
	"context"
	"slices"
	"strings"
)

// Transport performs one logical request. It is both the raw transport
// signature and the continuation handed to engines.
type Transport func(ctx context.Context, req *Request) (*Response, error)

// Engine is a pipeline stage. Hit either answers the request itself or
// delegates to next.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: Hit must not mutate req; returned responses are owned by the caller.
// - Errors: failures from next are propagated, never swallowed.
type Engine interface {
	Hit(ctx context.Context, req *Request, next Transport) (*Response, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, req *Request, next Transport) (*Response, error)

// Hit calls f.
func (f EngineFunc) Hit(ctx context.Context, req *Request, next Transport) (*Response, error) {
	return f(ctx, req, next)
}

// Chain composes engines around t. The first engine is outermost. Nil
// engines are skipped.
func Chain(t Transport, engines ...Engine) Transport {
	out := t
	for _, e := range slices.Backward(engines) {
		if e == nil {
			continue
		}
		next := out
		out = func(ctx context.Context, req *Request) (*Response, error) {
			return e.Hit(ctx, req, next)
		}
	}
	return out
}

// MethodAllowed reports whether the method of req is listed in allowed.
// Entries are compared case-insensitively.
func MethodAllowed(req *Request, allowed []string) bool {
	m := req.LowerMethod()
	return slices.ContainsFunc(allowed, func(a string) bool {
		return strings.EqualFold(a, m)
	})
}
