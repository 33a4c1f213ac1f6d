package resilience

import (
	"context"
	"time"

	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/observe"
)

// Retry defaults.
const (
	DefaultMaxTimes = 3
	DefaultDelay    = 100 * time.Millisecond
)

// DefaultRetryMethods lists the methods retried by default.
var DefaultRetryMethods = []string{"get", "head", "put", "patch", "delete"}

// RetryOptions configures retry eligibility.
type RetryOptions struct {
	// Enable turns retrying off when set to false.
	Enable *bool

	// MaxTimes is the number of retries after the first attempt. Nil means
	// DefaultMaxTimes; zero disables retries.
	// Default: 3 (four attempts in total)
	MaxTimes *int

	// Delay is the pause before each retry. Zero means DefaultDelay; a
	// negative value retries immediately.
	// Default: 100ms
	Delay time.Duration

	// AllowedMethods lists the lower-case methods eligible for retry.
	// A ForceEnabled override bypasses this list.
	// Default: get, head, put, patch, delete
	AllowedMethods []string

	// AllowedHTTPStatus lists the statuses that may be retried when the
	// error carries a response.
	// Default: [100,199], 429, [500,599]
	AllowedHTTPStatus []StatusRange
}

// Merge returns o overlaid with a per-request override.
func (o RetryOptions) Merge(ov exchange.Override[RetryOptions]) RetryOptions {
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
		if d.MaxTimes != nil {
			out.MaxTimes = d.MaxTimes
		}
		if d.Delay != 0 {
			out.Delay = d.Delay
		}
		if d.AllowedMethods != nil {
			out.AllowedMethods = d.AllowedMethods
		}
		if d.AllowedHTTPStatus != nil {
			out.AllowedHTTPStatus = d.AllowedHTTPStatus
		}
	}
	return out
}

// Enabled reports whether retrying is not explicitly disabled.
func (o RetryOptions) Enabled() bool {
	return o.Enable == nil || *o.Enable
}

// EffectiveMaxTimes returns MaxTimes or DefaultMaxTimes when unset.
// Negative values count as zero.
func (o RetryOptions) EffectiveMaxTimes() int {
	switch {
	case o.MaxTimes == nil:
		return DefaultMaxTimes
	case *o.MaxTimes < 0:
		return 0
	default:
		return *o.MaxTimes
	}
}

// EffectiveDelay returns the pause before a retry.
func (o RetryOptions) EffectiveDelay() time.Duration {
	switch {
	case o.Delay == 0:
		return DefaultDelay
	case o.Delay < 0:
		return 0
	default:
		return o.Delay
	}
}

// Validate checks the configured status ranges.
func (o RetryOptions) Validate() error {
	for _, r := range o.AllowedHTTPStatus {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o RetryOptions) allowedMethods() []string {
	if o.AllowedMethods == nil {
		return DefaultRetryMethods
	}
	return o.AllowedMethods
}

func (o RetryOptions) allowedHTTPStatus() []StatusRange {
	if o.AllowedHTTPStatus == nil {
		return DefaultAllowedHTTPStatus
	}
	return o.AllowedHTTPStatus
}

// Retry decides whether a failed attempt is retried.
type Retry struct {
	opts    RetryOptions
	clock   exchange.Clock
	metrics observe.Metrics
	logger  observe.Logger
	onRetry func(attempt int, err error, delay time.Duration)
}

// RetryOption customises a Retry.
type RetryOption func(*Retry)

// WithClock sets the clock used to wait between attempts.
func WithClock(c exchange.Clock) RetryOption {
	return func(r *Retry) { r.clock = c }
}

// WithOnRetry registers a callback invoked before each retry wait.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) RetryOption {
	return func(r *Retry) { r.onRetry = fn }
}

// WithMetrics reports scheduled retries to m.
func WithMetrics(m observe.Metrics) RetryOption {
	return func(r *Retry) { r.metrics = m }
}

// WithLogger logs scheduled retries at debug level.
func WithLogger(l observe.Logger) RetryOption {
	return func(r *Retry) { r.logger = l }
}

// NewRetry creates a retry policy with the given global options.
func NewRetry(opts RetryOptions, options ...RetryOption) *Retry {
	r := &Retry{opts: opts}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.clock == nil {
		r.clock = exchange.SystemClock()
	}
	if r.metrics == nil {
		r.metrics = observe.NopMetrics()
	}
	if r.logger == nil {
		r.logger = observe.NopLogger()
	}
	return r
}

// Eligible reports whether err on req may be retried as attempt, under the
// merged options. Attempt numbers start at 1 for the first retry.
func (r *Retry) Eligible(ov exchange.Override[RetryOptions], opts RetryOptions, err error, req *exchange.Request, attempt int) bool {
	if !opts.Enabled() || attempt > opts.EffectiveMaxTimes() || exchange.IsCancel(err) {
		return false
	}
	if !ov.Forced() && !exchange.MethodAllowed(req, opts.allowedMethods()) {
		return false
	}
	if status, ok := exchange.StatusOf(err); ok && !statusAllowed(status, opts.allowedHTTPStatus()) {
		return false
	}
	return true
}

// Validate is a ShouldRetry policy. Ineligible errors return false at once;
// eligible ones return true after the retry delay. A context that ends
// during the delay is returned as the error.
func (r *Retry) Validate(ctx context.Context, err error, req *exchange.Request, attempt int) (bool, error) {
	ov := exchange.OverrideFrom[RetryOptions](ctx)
	opts := r.opts.Merge(ov)
	if !r.Eligible(ov, opts, err, req, attempt) {
		return false, nil
	}

	delay := opts.EffectiveDelay()
	meta := observe.MetaFor(ctx, req)
	r.metrics.RecordRetry(ctx, meta, attempt)
	r.logger.WithRequest(meta).Debug(ctx, "retry scheduled",
		observe.Field{Key: "attempt", Value: attempt},
		observe.Field{Key: "delay_ms", Value: delay.Milliseconds()},
		observe.Field{Key: "error", Value: err.Error()},
	)
	if r.onRetry != nil {
		r.onRetry(attempt, err, delay)
	}

	if err := r.clock.Sleep(ctx, delay); err != nil {
		return false, err
	}
	return true, nil
}

// Options returns the global retry options.
func (r *Retry) Options() RetryOptions {
	return r.opts
}
