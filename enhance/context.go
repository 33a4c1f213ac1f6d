package enhance

import (
	"context"

	"github.com/jonwraymond/reqslots/cache"
	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/resilience"
	"github.com/jonwraymond/reqslots/share"
)

// ForceCache turns caching on or off for requests made with ctx.
func ForceCache(ctx context.Context, enable bool) context.Context {
	return exchange.WithOverride(ctx, exchange.Force[cache.Options](enable))
}

// CacheWith overrides the set fields of the caching options for requests
// made with ctx.
func CacheWith(ctx context.Context, opts cache.Options) context.Context {
	return exchange.WithOverride(ctx, exchange.With(opts))
}

// SkipCache is ForceCache(ctx, false).
func SkipCache(ctx context.Context) context.Context {
	return ForceCache(ctx, false)
}

// ForceShare turns sharing on or off for requests made with ctx. Forcing it
// on bypasses the allowed methods.
func ForceShare(ctx context.Context, enable bool) context.Context {
	return exchange.WithOverride(ctx, exchange.Force[share.Options](enable))
}

// ShareWith overrides the set fields of the sharing options.
func ShareWith(ctx context.Context, opts share.Options) context.Context {
	return exchange.WithOverride(ctx, exchange.With(opts))
}

// SkipShare is ForceShare(ctx, false).
func SkipShare(ctx context.Context) context.Context {
	return ForceShare(ctx, false)
}

// ForceRetry turns retrying on or off for requests made with ctx. Forcing
// it on bypasses the allowed methods.
func ForceRetry(ctx context.Context, enable bool) context.Context {
	return exchange.WithOverride(ctx, exchange.Force[resilience.RetryOptions](enable))
}

// RetryWith overrides the set fields of the retry options.
func RetryWith(ctx context.Context, opts resilience.RetryOptions) context.Context {
	return exchange.WithOverride(ctx, exchange.With(opts))
}

// SkipRetry is ForceRetry(ctx, false).
func SkipRetry(ctx context.Context) context.Context {
	return ForceRetry(ctx, false)
}
