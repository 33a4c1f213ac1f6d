package fingerprint

import "errors"

// ErrUnkeyable is returned for values that cannot be fingerprinted without
// side effects, such as streaming request bodies.
var ErrUnkeyable = errors.New("fingerprint: value cannot be keyed")
