// Package observe provides observability primitives for enhanced requests.
//
// It is a pure instrumentation library: structured logging, OpenTelemetry
// metrics and tracing, and a Middleware that wraps an exchange.Transport with
// all three. Engines report their own events (cache lookups, shared calls,
// retries) through the Metrics interface.
package observe
