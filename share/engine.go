package share

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/fingerprint"
	"github.com/jonwraymond/reqslots/observe"
)

// Namespace prefixes every share key.
const Namespace = "share"

// Engine coalesces identical in-flight requests into one transport call.
//
// Contract:
//   - Concurrency: Hit is safe for concurrent use; at most one call to next
//     is in flight per key.
//   - Ownership: every caller, including the one whose call ran, receives its
//     own copy of the response.
//   - Context: the shared call runs with the first caller's context. A waiting
//     caller whose context ends stops waiting without affecting the others.
type Engine struct {
	opts    Options
	group   singleflight.Group
	keyer   fingerprint.Keyer
	metrics observe.Metrics
	logger  observe.Logger
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithKeyer sets the fingerprint keyer.
func WithKeyer(k fingerprint.Keyer) EngineOption {
	return func(e *Engine) { e.keyer = k }
}

// WithMetrics reports owner and joiner calls to m.
func WithMetrics(m observe.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger logs shared calls at debug level.
func WithLogger(l observe.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a share engine with the given global options.
func NewEngine(opts Options, options ...EngineOption) *Engine {
	e := &Engine{opts: opts}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.keyer == nil {
		e.keyer = fingerprint.NewDefaultKeyer()
	}
	if e.metrics == nil {
		e.metrics = observe.NopMetrics()
	}
	if e.logger == nil {
		e.logger = observe.NopLogger()
	}
	return e
}

// Eligible reports whether req may be shared under the merged options.
func (e *Engine) Eligible(ov exchange.Override[Options], opts Options, req *exchange.Request) bool {
	if !opts.Enabled() {
		return false
	}
	if !ov.Forced() && !exchange.MethodAllowed(req, opts.allowedMethods()) {
		return false
	}
	return opts.Validate == nil || opts.Validate(req)
}

// Hit joins an identical in-flight call for req or starts one through next.
func (e *Engine) Hit(ctx context.Context, req *exchange.Request, next exchange.Transport) (*exchange.Response, error) {
	ov := exchange.OverrideFrom[Options](ctx)
	opts := e.opts.Merge(ov)
	if !e.Eligible(ov, opts, req) {
		return next(ctx, req)
	}

	meta := observe.MetaFor(ctx, req)
	log := e.logger.WithRequest(meta)

	key, err := e.Key(req, opts)
	if err != nil {
		log.Debug(ctx, "share bypassed", observe.Field{Key: "reason", Value: err.Error()})
		return next(ctx, req)
	}

	var owner atomic.Bool
	ch := e.group.DoChan(key, func() (any, error) {
		owner.Store(true)
		return next(ctx, req)
	})
	log.Debug(ctx, "awaiting shared request", observe.Field{Key: "key", Value: key})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		log.Debug(ctx, "stopped waiting for shared request", observe.Field{Key: "key", Value: key})
		return nil, exchange.ContextError(ctx.Err(), req)
	}

	role := observe.RoleJoiner
	if owner.Load() {
		role = observe.RoleOwner
	}
	e.metrics.RecordShare(ctx, meta, role)
	log.Debug(ctx, "shared request settled",
		observe.Field{Key: "key", Value: key},
		observe.Field{Key: "role", Value: role},
		observe.Field{Key: "shared", Value: res.Shared},
	)

	if res.Err != nil {
		if role == observe.RoleOwner {
			return nil, res.Err
		}
		return nil, exchange.Rewrap(res.Err, req)
	}
	resp, _ := res.Val.(*exchange.Response)
	return exchange.CloneResponse(resp, req), nil
}

// Key returns the share key for req under opts.
func (e *Engine) Key(req *exchange.Request, opts Options) (string, error) {
	fc, err := NewFormatConfig(req)
	if err != nil {
		return "", err
	}
	var v any = fc
	if opts.Format != nil {
		v = opts.Format(fc)
	}
	return e.keyer.Key(Namespace, v)
}

// Ensure Engine implements exchange.Engine
var _ exchange.Engine = (*Engine)(nil)
