package resilience

import (
	"context"

	"github.com/jonwraymond/reqslots/exchange"
)

// ShouldRetry decides whether the loop makes another attempt after err.
// Attempt numbers start at 1 for the first retry. A returned error stops
// the loop; the attempt's original error is surfaced, never this one.
type ShouldRetry func(ctx context.Context, err error, req *exchange.Request, attempt int) (bool, error)

// Interceptors observe or transform the raw outcome of each attempt before
// status validation. OnResponse runs on success, OnError on failure; either
// may turn the outcome around. Both are optional.
type Interceptors struct {
	OnResponse func(ctx context.Context, resp *exchange.Response) (*exchange.Response, error)
	OnError    func(ctx context.Context, err error) (*exchange.Response, error)
}

func (ic Interceptors) apply(ctx context.Context, resp *exchange.Response, err error) (*exchange.Response, error) {
	if err != nil {
		if ic.OnError != nil {
			return ic.OnError(ctx, err)
		}
		return nil, err
	}
	if ic.OnResponse != nil {
		return ic.OnResponse(ctx, resp)
	}
	return resp, nil
}

// Loop runs sequential attempts against a raw transport.
//
// Contract:
//   - Concurrency: Hit is safe for concurrent use; attempts of one Hit never overlap.
//   - Errors: the error of the last attempt is returned unchanged.
type Loop struct {
	transport    exchange.Transport
	httpStatus   func(*exchange.Response) int
	interceptors Interceptors
}

// LoopOption customises a Loop.
type LoopOption func(*Loop)

// WithHTTPStatus sets the default application-level status extractor, used
// when a request sets ValidateStatus but no HTTPStatus of its own.
func WithHTTPStatus(fn func(*exchange.Response) int) LoopOption {
	return func(l *Loop) { l.httpStatus = fn }
}

// WithInterceptors sets the interceptors used by Next.
func WithInterceptors(ic Interceptors) LoopOption {
	return func(l *Loop) { l.interceptors = ic }
}

// NewLoop creates a Loop over transport.
func NewLoop(transport exchange.Transport, opts ...LoopOption) (*Loop, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	l := &Loop{transport: transport}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

// Hit runs attempts until one succeeds or shouldRetry declines. Requests
// that are not replayable get a single attempt.
func (l *Loop) Hit(ctx context.Context, req *exchange.Request, ic Interceptors, shouldRetry ShouldRetry) (*exchange.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := l.attempt(ctx, req, ic)
		if err == nil {
			return resp, nil
		}
		if shouldRetry == nil || !req.Replayable() {
			return nil, err
		}
		again, rerr := shouldRetry(ctx, err, req, attempt+1)
		if rerr != nil || !again {
			return nil, err
		}
	}
}

func (l *Loop) attempt(ctx context.Context, req *exchange.Request, ic Interceptors) (*exchange.Response, error) {
	resp, err := l.transport(ctx, req)
	resp, err = ic.apply(ctx, resp, err)
	if err != nil {
		return nil, err
	}

	if req.ValidateStatus == nil || resp == nil {
		return resp, nil
	}
	extract := req.HTTPStatus
	if extract == nil {
		extract = l.httpStatus
	}
	if extract == nil {
		return resp, nil
	}

	if status := extract(resp); !req.ValidateStatus(status) {
		serr := exchange.NewStatusError(resp, status)
		if serr.Request == nil {
			serr.Request = req
		}
		return nil, serr
	}
	return resp, nil
}

// Next adapts the loop to a Transport that retries under policy, using the
// loop's configured interceptors.
func (l *Loop) Next(policy ShouldRetry) exchange.Transport {
	return func(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
		return l.Hit(ctx, req, l.interceptors, policy)
	}
}
