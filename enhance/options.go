package enhance

import (
	"time"

	"github.com/jonwraymond/reqslots/cache"
	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/fingerprint"
	"github.com/jonwraymond/reqslots/observe"
	"github.com/jonwraymond/reqslots/resilience"
	"github.com/jonwraymond/reqslots/share"
)

type settings struct {
	cache cache.Options
	share share.Options
	retry resilience.RetryOptions

	store cache.Store
	keyer fingerprint.Keyer
	clock exchange.Clock

	observer   observe.Observer
	middleware *observe.Middleware

	bulkhead    *resilience.BulkheadConfig
	rateLimit   *resilience.RateLimiterConfig
	httpStatus  func(*exchange.Response) int
	interceptor resilience.Interceptors
	onRetry     func(attempt int, err error, delay time.Duration)

	baseURL string
}

func defaultSettings() *settings {
	return &settings{
		cache: cache.DefaultOptions(),
		share: share.DefaultOptions(),
		retry: resilience.RetryOptions{
			Enable:            exchange.Bool(true),
			MaxTimes:          exchange.Int(resilience.DefaultMaxTimes),
			Delay:             resilience.DefaultDelay,
			AllowedMethods:    resilience.DefaultRetryMethods,
			AllowedHTTPStatus: resilience.DefaultAllowedHTTPStatus,
		},
	}
}

// Option configures a Client.
type Option func(*settings)

// WithCache sets the global caching options.
func WithCache(opts cache.Options) Option {
	return func(s *settings) { s.cache = opts }
}

// WithoutCache disables caching unless a request forces it on.
func WithoutCache() Option {
	return func(s *settings) { s.cache.Enable = exchange.Bool(false) }
}

// WithShare sets the global sharing options.
func WithShare(opts share.Options) Option {
	return func(s *settings) { s.share = opts }
}

// WithoutShare disables sharing unless a request forces it on.
func WithoutShare() Option {
	return func(s *settings) { s.share.Enable = exchange.Bool(false) }
}

// WithRetry sets the global retry options.
func WithRetry(opts resilience.RetryOptions) Option {
	return func(s *settings) { s.retry = opts }
}

// WithoutRetry disables retrying unless a request forces it on.
func WithoutRetry() Option {
	return func(s *settings) { s.retry.Enable = exchange.Bool(false) }
}

// WithStore sets the cache store. Defaults to a MemoryStore.
func WithStore(store cache.Store) Option {
	return func(s *settings) { s.store = store }
}

// WithKeyer sets the fingerprint keyer shared by cache and share.
func WithKeyer(k fingerprint.Keyer) Option {
	return func(s *settings) { s.keyer = k }
}

// WithClock sets the clock used for cache freshness and retry delays.
func WithClock(c exchange.Clock) Option {
	return func(s *settings) { s.clock = c }
}

// WithObserver instruments the client with the observer's tracer, meter
// and logger.
func WithObserver(obs observe.Observer) Option {
	return func(s *settings) { s.observer = obs }
}

// WithMiddleware instruments the client with an existing middleware. It
// takes precedence over WithObserver.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(s *settings) { s.middleware = mw }
}

// WithMaxConcurrent bounds concurrent transport attempts. maxWait is how
// long an attempt may wait for a slot; zero fails immediately.
func WithMaxConcurrent(n int, maxWait time.Duration) Option {
	return func(s *settings) {
		s.bulkhead = &resilience.BulkheadConfig{MaxConcurrent: n, MaxWait: maxWait}
	}
}

// WithRateLimit applies a token bucket to transport attempts.
func WithRateLimit(cfg resilience.RateLimiterConfig) Option {
	return func(s *settings) { s.rateLimit = &cfg }
}

// WithHTTPStatus sets the default application-level status extractor.
func WithHTTPStatus(fn func(*exchange.Response) int) Option {
	return func(s *settings) { s.httpStatus = fn }
}

// WithInterceptors sets interceptors run on every raw attempt.
func WithInterceptors(ic resilience.Interceptors) Option {
	return func(s *settings) { s.interceptor = ic }
}

// WithOnRetry registers a callback invoked before each retry wait.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(s *settings) { s.onRetry = fn }
}

// WithBaseURL sets the BaseURL used by requests that leave it empty.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}
