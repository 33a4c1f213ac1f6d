// Package exchange defines the request, response and error types that flow
// through the enhancement pipeline, along with the Engine contract every
// pipeline stage implements.
//
// A Transport performs one logical HTTP exchange. Engines wrap a Transport
// (the continuation) and may short-circuit it, coalesce it or repeat it, but
// callers always observe the same Transport shape:
//
//	do := exchange.Chain(raw, cacheEngine, shareEngine)
//	resp, err := do(ctx, &exchange.Request{Method: "GET", URL: "/users"})
//
// Per-request overrides for individual engines travel on the context as a
// tagged Override value (unset, force enabled, force disabled or detailed
// options) so that engines stay decoupled from one another.
package exchange
