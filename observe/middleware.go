package observe

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/reqslots/exchange"
)

// Middleware wraps a transport with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe Transport.
//   - Context: a request ID is attached to ctx when absent and propagated
//     through the tracing span.
//   - Errors: errors from the wrapped transport are recorded and propagated unchanged.
//   - Ownership: requests and responses are passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
	now     func() time.Time
}

// NewMiddleware creates a new Middleware with the given observability components.
// Nil components are replaced by no-op implementations.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Metrics returns the middleware's metrics recorder, for sharing with engines.
func (m *Middleware) Metrics() Metrics { return m.metrics }

// Logger returns the middleware's logger, for sharing with engines.
func (m *Middleware) Logger() Logger { return m.logger }

// Wrap wraps a transport with tracing, metrics, and logging.
func (m *Middleware) Wrap(next exchange.Transport) exchange.Transport {
	return func(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
		if RequestIDFrom(ctx) == "" {
			ctx = WithRequestID(ctx, uuid.NewString())
		}
		meta := MetaFor(ctx, req)

		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := m.now()

		resp, err := next(ctx, req)

		duration := m.now().Sub(start)
		status := 0
		if resp != nil {
			status = resp.Status
		} else if s, ok := exchange.StatusOf(err); ok {
			status = s
		}

		m.tracer.EndSpan(span, status, err)
		m.metrics.RecordRequest(ctx, meta, status, duration, err)

		reqLogger := m.logger.WithRequest(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if status > 0 {
			fields = append(fields, Field{Key: "status", Value: status})
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			reqLogger.Error(ctx, "request failed", fields...)
		} else {
			reqLogger.Info(ctx, "request completed", fields...)
		}

		return resp, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
