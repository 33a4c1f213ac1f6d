// Package fingerprint derives deterministic string keys from request field
// subsets.
//
// Keys are SHA-256 hashes of a canonical JSON encoding, so two values with
// equal content produce equal keys regardless of map iteration order.
package fingerprint
