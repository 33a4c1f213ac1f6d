// Package enhance wires the request engines into a single client.
//
// A Client composes, outermost first:
//
//	observe middleware -> cache -> share -> retry loop -> [rate limit, bulkhead] -> transport
//
// Every engine is installed; the With and Without options set its global
// defaults. Per-request behaviour is adjusted through the context helpers
// (ForceCache, SkipShare, RetryWith, ...), which override the globals for a
// single call without touching the client.
package enhance
