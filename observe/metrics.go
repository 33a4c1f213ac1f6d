package observe

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Share roles reported by RecordShare.
const (
	RoleOwner  = "owner"
	RoleJoiner = "joiner"
)

// Metrics records request and engine metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records one logical request with its final status
	// (0 when no response was received), duration and error.
	RecordRequest(ctx context.Context, meta RequestMeta, status int, duration time.Duration, err error)

	// RecordCacheLookup records a cache hit or miss.
	RecordCacheLookup(ctx context.Context, meta RequestMeta, hit bool)

	// RecordShare records a shared call as owner or joiner.
	RecordShare(ctx context.Context, meta RequestMeta, role string)

	// RecordRetry records a scheduled retry attempt.
	RecordRetry(ctx context.Context, meta RequestMeta, attempt int)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheLookups metric.Int64Counter
	shareCalls   metric.Int64Counter
	retries      metric.Int64Counter
}

// NewMetrics creates the request instruments on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"http.client.requests",
		metric.WithDescription("Total number of enhanced requests"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"http.client.errors",
		metric.WithDescription("Total number of failed enhanced requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"http.client.duration_ms",
		metric.WithDescription("Enhanced request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"reqslots.cache.lookups",
		metric.WithDescription("Cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	shareCalls, err := meter.Int64Counter(
		"reqslots.share.calls",
		metric.WithDescription("Shared in-flight calls by role"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	retries, err := meter.Int64Counter(
		"reqslots.retry.attempts",
		metric.WithDescription("Scheduled retry attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		cacheLookups: cacheLookups,
		shareCalls:   shareCalls,
		retries:      retries,
	}, nil
}

func baseAttrs(meta RequestMeta) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("http.method", meta.Method),
		attribute.String("http.endpoint", meta.Endpoint()),
	}
}

// RecordRequest records metrics for a logical request.
func (m *metricsImpl) RecordRequest(ctx context.Context, meta RequestMeta, status int, duration time.Duration, err error) {
	attrs := baseAttrs(meta)
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordCacheLookup(ctx context.Context, meta RequestMeta, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	attrs := append(baseAttrs(meta), attribute.String("result", result))
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metricsImpl) RecordShare(ctx context.Context, meta RequestMeta, role string) {
	attrs := append(baseAttrs(meta), attribute.String("role", role))
	m.shareCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metricsImpl) RecordRetry(ctx context.Context, meta RequestMeta, attempt int) {
	attrs := append(baseAttrs(meta), attribute.String("attempt", strconv.Itoa(attempt)))
	m.retries.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return noopMetrics{} }

type noopMetrics struct{}

func (noopMetrics) RecordRequest(context.Context, RequestMeta, int, time.Duration, error) {}
func (noopMetrics) RecordCacheLookup(context.Context, RequestMeta, bool)                 {}
func (noopMetrics) RecordShare(context.Context, RequestMeta, string)                     {}
func (noopMetrics) RecordRetry(context.Context, RequestMeta, int)                        {}
