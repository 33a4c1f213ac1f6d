package exchange

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMethod is used when a Request leaves Method empty.
const DefaultMethod = "get"

// Request describes a single logical HTTP request.
//
// Data holds the request body: []byte, string and io.Reader values are sent
// as-is, anything else is JSON encoded by the transport.
type Request struct {
	Method  string
	BaseURL string
	URL     string
	Params  url.Values
	Data    any
	Headers http.Header

	// Timeout bounds a single transport attempt. Zero means no timeout.
	Timeout time.Duration

	// MaxContentLength limits the response body size in bytes. Zero or
	// negative means unlimited.
	MaxContentLength int64

	// MaxBodyLength limits the request body size in bytes. Zero or negative
	// means unlimited.
	MaxBodyLength int64

	XSRFCookieName string
	XSRFHeaderName string

	// ValidateStatus reports whether a status code is acceptable. The raw
	// transport uses it for the transport-level status; the transport loop
	// additionally applies it to the status extracted by HTTPStatus.
	ValidateStatus func(status int) bool

	// HTTPStatus extracts the application-level status from a response,
	// e.g. a "code" field in a JSON envelope.
	HTTPStatus func(resp *Response) int
}

// LowerMethod returns the lower-cased method, defaulting to DefaultMethod.
func (r *Request) LowerMethod() string {
	if r == nil || r.Method == "" {
		return DefaultMethod
	}
	return strings.ToLower(r.Method)
}

// Clone returns a copy of r whose Params and Headers can be modified without
// affecting r. Data and the function fields are shared.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	c := *r
	c.Params = cloneValues(r.Params)
	c.Headers = r.Headers.Clone()
	return &c
}

// Replayable reports whether r can be sent more than once. A streaming
// body is consumed by the first attempt.
func (r *Request) Replayable() bool {
	_, streaming := r.Data.(io.Reader)
	return !streaming
}

// FullURL joins BaseURL and URL the way a browser client would: an absolute
// URL wins, otherwise the two are joined with exactly one slash.
func (r *Request) FullURL() string {
	if r.BaseURL == "" || isAbsoluteURL(r.URL) {
		return r.URL
	}
	if r.URL == "" {
		return r.BaseURL
	}
	return strings.TrimRight(r.BaseURL, "/") + "/" + strings.TrimLeft(r.URL, "/")
}

func isAbsoluteURL(u string) bool {
	i := strings.Index(u, "://")
	if i <= 0 {
		return strings.HasPrefix(u, "//")
	}
	for _, c := range u[:i] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return false
		}
	}
	return true
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return nil
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// DefaultValidateStatus accepts 2xx statuses.
func DefaultValidateStatus(status int) bool {
	return status >= 200 && status < 300
}
