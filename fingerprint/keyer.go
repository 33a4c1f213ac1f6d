package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Keyer generates deterministic keys from arbitrary values.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a key for v within namespace.
	Key(namespace string, v any) (string, error)
}

// DefaultKeyer generates SHA-256 based keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic key.
// Format: <namespace>:<hash>
// where hash is the first 32 characters of SHA-256(canonical JSON(v))
func (k *DefaultKeyer) Key(namespace string, v any) (string, error) {
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: failed to canonicalize input: %w", err)
	}

	hash := sha256.Sum256(canonical)
	return namespace + ":" + hex.EncodeToString(hash[:16]), nil
}

// Canonicalize produces a deterministic JSON representation of v.
// Maps are sorted by key to ensure consistent ordering.
func Canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	case io.Reader:
		return nil, ErrUnkeyable
	default:
		// encoding/json already sorts map keys for typed maps and structs
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := Canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := Canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// EncodeData returns the canonical encoding of a request body so it can be
// embedded in a fingerprint. The encoding is tagged with the body kind
// ("bytes", "text" or "json") because the transport sends each kind
// differently. Streaming bodies yield ErrUnkeyable.
func EncodeData(data any) (json.RawMessage, error) {
	var (
		kind string
		enc  []byte
		err  error
	)
	switch d := data.(type) {
	case nil:
		return nil, nil
	case []byte:
		kind = "bytes"
		enc, err = json.Marshal(d)
	case string:
		kind = "text"
		enc, err = json.Marshal(d)
	case io.Reader:
		return nil, ErrUnkeyable
	default:
		kind = "json"
		enc, err = Canonicalize(d)
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(enc)+len(kind)+5)
	out = append(out, `{"`...)
	out = append(out, kind...)
	out = append(out, `":`...)
	out = append(out, enc...)
	out = append(out, '}')
	return out, nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
