package enhance

import "errors"

// ErrNilRequest is returned by Do when called with a nil request.
var ErrNilRequest = errors.New("enhance: request is nil")
