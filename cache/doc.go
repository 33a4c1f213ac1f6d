// Package cache provides the response cache engine.
//
// The Engine answers repeated requests from memory for a bounded age. Keys
// are SHA-256 fingerprints of a fixed subset of request fields (see
// FormatConfig); expiry is purely time based and entries are never evicted
// for size. Only successful responses are stored.
package cache
