// Package transport adapts net/http to exchange.Transport.
//
// The returned transport performs exactly one HTTP round trip per call. It
// joins BaseURL and URL, encodes Params and Data, applies the per-request
// timeout and size limits, and reports every failure as an *exchange.Error
// whose Code tells network errors, timeouts and rejected statuses apart.
// Caller cancellation is reported as exchange.ErrCanceled.
package transport
