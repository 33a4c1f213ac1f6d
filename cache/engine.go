package cache

import (
	"context"

	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/fingerprint"
	"github.com/jonwraymond/reqslots/observe"
)

// Namespace prefixes every cache key.
const Namespace = "cache"

// Engine serves fresh stored responses and stores successful ones.
//
// Contract:
//   - Concurrency: Hit is safe for concurrent use.
//   - Ownership: every response returned from the store is a private copy
//     tagged with the caller's request; stored entries are copies too.
//   - Errors: failures from next are returned unchanged and never stored.
type Engine struct {
	opts    Options
	store   Store
	keyer   fingerprint.Keyer
	clock   exchange.Clock
	metrics observe.Metrics
	logger  observe.Logger
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithStore sets the entry store. Defaults to a new MemoryStore.
func WithStore(s Store) EngineOption {
	return func(e *Engine) { e.store = s }
}

// WithKeyer sets the fingerprint keyer.
func WithKeyer(k fingerprint.Keyer) EngineOption {
	return func(e *Engine) { e.keyer = k }
}

// WithClock sets the clock used for entry timestamps and freshness.
func WithClock(c exchange.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithMetrics reports hits and misses to m.
func WithMetrics(m observe.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger logs lookups at debug level.
func WithLogger(l observe.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a cache engine with the given global options.
func NewEngine(opts Options, options ...EngineOption) *Engine {
	e := &Engine{opts: opts}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.store == nil {
		e.store = NewMemoryStore()
	}
	if e.keyer == nil {
		e.keyer = fingerprint.NewDefaultKeyer()
	}
	if e.clock == nil {
		e.clock = exchange.SystemClock()
	}
	if e.metrics == nil {
		e.metrics = observe.NopMetrics()
	}
	if e.logger == nil {
		e.logger = observe.NopLogger()
	}
	return e
}

// Hit answers req from the store when a fresh entry exists, otherwise
// fetches it through next and stores a copy of the response.
func (e *Engine) Hit(ctx context.Context, req *exchange.Request, next exchange.Transport) (*exchange.Response, error) {
	opts := e.opts.Merge(exchange.OverrideFrom[Options](ctx))
	if !opts.Enabled() || !exchange.MethodAllowed(req, opts.allowedMethods()) {
		return next(ctx, req)
	}

	meta := observe.MetaFor(ctx, req)
	log := e.logger.WithRequest(meta)

	key, err := e.Key(req, opts)
	if err != nil {
		log.Debug(ctx, "cache bypassed", observe.Field{Key: "reason", Value: err.Error()})
		return next(ctx, req)
	}

	if entry, ok := e.store.Get(ctx, key); ok {
		if !entry.Time.Add(opts.EffectiveMaxAge()).Before(e.clock.Now()) {
			e.metrics.RecordCacheLookup(ctx, meta, true)
			log.Debug(ctx, "cache hit", observe.Field{Key: "key", Value: key})
			return exchange.CloneResponse(entry.Response, req), nil
		}
		e.store.Expire(ctx, key, entry.Time)
	}

	e.metrics.RecordCacheLookup(ctx, meta, false)
	log.Debug(ctx, "cache miss", observe.Field{Key: "key", Value: key})

	resp, err := next(ctx, req)
	if err != nil {
		return resp, err
	}
	if resp == nil {
		return nil, nil
	}

	tagged := resp.Request
	if tagged == nil {
		tagged = req
	}
	e.store.Set(ctx, key, Entry{
		Time:     e.clock.Now(),
		Response: exchange.CloneResponse(resp, tagged),
	})
	return resp, nil
}

// Key returns the cache key for req under opts. The Format hook, if any,
// runs on a private copy of the fingerprint.
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

// Purge drops every stored entry.
func (e *Engine) Purge(ctx context.Context) {
	e.store.Purge(ctx)
}

// Len reports the number of stored entries, fresh or not.
func (e *Engine) Len() int {
	return e.store.Len()
}

// Ensure Engine implements exchange.Engine
var _ exchange.Engine = (*Engine)(nil)
