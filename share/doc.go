// Package share provides the in-flight request sharing engine.
//
// While a request is in flight, identical requests (by fingerprint) wait for
// its outcome instead of issuing their own transport call. Every caller gets
// an independent copy of the response tagged with its own request; failures
// are re-wrapped per caller, except cancellations which pass through as-is.
// The in-flight slot is released as soon as the call settles, so later
// requests start a fresh call.
package share
