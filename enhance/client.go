package enhance

import (
	"context"
	"net/http"

	"github.com/jonwraymond/reqslots/cache"
	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/observe"
	"github.com/jonwraymond/reqslots/resilience"
	"github.com/jonwraymond/reqslots/share"
)

// Client sends requests through the cache, share and retry engines.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Ownership: requests are never mutated; each caller owns its response.
//   - Errors: failures have the shape of a single transport attempt.
type Client struct {
	cache    *cache.Engine
	share    *share.Engine
	retry    *resilience.Retry
	bulkhead *resilience.Bulkhead
	limiter  *resilience.RateLimiter
	mw       *observe.Middleware
	do       exchange.Transport
	baseURL  string
}

// New builds a Client over transport.
func New(transport exchange.Transport, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, resilience.ErrNilTransport
	}
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.retry.Validate(); err != nil {
		return nil, err
	}

	mw := s.middleware
	if mw == nil && s.observer != nil {
		var err error
		if mw, err = observe.MiddlewareFromObserver(s.observer); err != nil {
			return nil, err
		}
	}
	if mw == nil {
		mw = observe.NewMiddleware(nil, nil, nil)
	}
	metrics, logger := mw.Metrics(), mw.Logger()

	c := &Client{mw: mw, baseURL: s.baseURL}

	var guards []exchange.Engine
	if s.rateLimit != nil {
		cfg := *s.rateLimit
		if cfg.Clock == nil {
			cfg.Clock = s.clock
		}
		c.limiter = resilience.NewRateLimiter(cfg)
		guards = append(guards, c.limiter)
	}
	if s.bulkhead != nil {
		c.bulkhead = resilience.NewBulkhead(*s.bulkhead)
		guards = append(guards, c.bulkhead)
	}

	loop, err := resilience.NewLoop(exchange.Chain(transport, guards...),
		resilience.WithHTTPStatus(s.httpStatus),
		resilience.WithInterceptors(s.interceptor),
	)
	if err != nil {
		return nil, err
	}

	c.retry = resilience.NewRetry(s.retry,
		resilience.WithClock(s.clock),
		resilience.WithOnRetry(s.onRetry),
		resilience.WithMetrics(metrics),
		resilience.WithLogger(logger),
	)

	cacheOpts := []cache.EngineOption{cache.WithMetrics(metrics), cache.WithLogger(logger)}
	shareOpts := []share.EngineOption{share.WithMetrics(metrics), share.WithLogger(logger)}
	if s.store != nil {
		cacheOpts = append(cacheOpts, cache.WithStore(s.store))
	}
	if s.keyer != nil {
		cacheOpts = append(cacheOpts, cache.WithKeyer(s.keyer))
		shareOpts = append(shareOpts, share.WithKeyer(s.keyer))
	}
	if s.clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(s.clock))
	}
	c.cache = cache.NewEngine(s.cache, cacheOpts...)
	c.share = share.NewEngine(s.share, shareOpts...)

	c.do = mw.Wrap(exchange.Chain(loop.Next(c.retry.Validate), c.cache, c.share))
	return c, nil
}

// Do sends req through the pipeline.
func (c *Client) Do(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if req.BaseURL == "" && c.baseURL != "" {
		req = req.Clone()
		req.BaseURL = c.baseURL
	}
	return c.do(ctx, req)
}

// Get sends a GET request for url.
func (c *Client) Get(ctx context.Context, url string) (*exchange.Response, error) {
	return c.Do(ctx, &exchange.Request{Method: http.MethodGet, URL: url})
}

// Transport returns the pipeline as a Transport.
func (c *Client) Transport() exchange.Transport {
	return c.Do
}

// Purge drops every cached response.
func (c *Client) Purge(ctx context.Context) {
	c.cache.Purge(ctx)
}

// Stats is a snapshot of client state.
type Stats struct {
	CachedEntries int
	Bulkhead      *resilience.BulkheadStats
	Tokens        *float64
}

// Stats reports the cache size and, when configured, the guard state.
func (c *Client) Stats() Stats {
	st := Stats{CachedEntries: c.cache.Len()}
	if c.bulkhead != nil {
		bs := c.bulkhead.Stats()
		st.Bulkhead = &bs
	}
	if c.limiter != nil {
		t := c.limiter.Tokens()
		st.Tokens = &t
	}
	return st
}
