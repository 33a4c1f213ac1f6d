package auth

import (
	"context"
	"errors"

	"github.com/jonwraymond/reqslots/exchange"
)

// DefaultAPIKeyHeader is the header used by APIKeyTransport when none is given.
const DefaultAPIKeyHeader = "X-API-Key"

// Decorator wraps a transport.
type Decorator func(next exchange.Transport) exchange.Transport

// BearerTransport sets "Authorization: Bearer <token>" on every attempt,
// unless the request already carries an Authorization header.
func BearerTransport(next exchange.Transport, src TokenSource) exchange.Transport {
	return func(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
		if req.Headers.Get("Authorization") != "" {
			return next(ctx, req)
		}
		token, err := src.Token(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, exchange.ContextError(ctx.Err(), req)
			}
			return nil, &exchange.Error{Message: "cannot obtain credentials", Code: exchange.CodeBadRequest, Request: req, Err: err}
		}
		return sendAs(ctx, next, req, withHeader(req, "Authorization", "Bearer "+token))
	}
}

// APIKeyTransport sets header to key on every attempt. An empty header
// means DefaultAPIKeyHeader.
func APIKeyTransport(next exchange.Transport, header, key string) exchange.Transport {
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	return func(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
		if req.Headers.Get(header) != "" {
			return next(ctx, req)
		}
		return sendAs(ctx, next, req, withHeader(req, header, key))
	}
}

// withHeader returns a copy of req with the header set, leaving req intact.
func withHeader(req *exchange.Request, key, value string) *exchange.Request {
	c := req.Clone()
	if c.Headers == nil {
		c.Headers = make(map[string][]string)
	}
	c.Headers.Set(key, value)
	return c
}

// sendAs sends authed and tags the outcome with the caller's req, so the
// credential never leaves the decorator.
func sendAs(ctx context.Context, next exchange.Transport, req, authed *exchange.Request) (*exchange.Response, error) {
	resp, err := next(ctx, authed)
	if resp != nil && resp.Request == authed {
		resp.Request = req
	}
	var xe *exchange.Error
	if errors.As(err, &xe) {
		if xe.Request == authed {
			xe.Request = req
		}
		if xe.Response != nil && xe.Response.Request == authed {
			xe.Response.Request = req
		}
	}
	return resp, err
}
