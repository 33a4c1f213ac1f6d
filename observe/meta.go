package observe

import (
	"context"
	"net/url"
	"strings"

	"github.com/jonwraymond/reqslots/exchange"
)

// RequestMeta contains metadata about a request for telemetry purposes.
type RequestMeta struct {
	ID     string // Request ID, stable across engines for one logical call
	Method string // Upper-case HTTP method
	Host   string // Target host (may be empty for relative URLs)
	Path   string // Target path
}

// SpanName returns the span name for this request.
// Format: http.client <METHOD>
func (m RequestMeta) SpanName() string {
	return "http.client " + m.Method
}

// Endpoint returns host + path, used as a low-cardinality endpoint label.
func (m RequestMeta) Endpoint() string {
	var b strings.Builder
	b.WriteString(m.Host)
	if m.Path != "" && m.Path != "/" {
		b.WriteString(m.Path)
	} else {
		b.WriteByte('/')
	}
	return b.String()
}

// Validate checks that required fields are present.
func (m RequestMeta) Validate() error {
	if m.Method == "" {
		return ErrMissingMethod
	}
	return nil
}

// MetaFor builds RequestMeta for req, taking the request ID from ctx.
func MetaFor(ctx context.Context, req *exchange.Request) RequestMeta {
	meta := RequestMeta{
		ID:     RequestIDFrom(ctx),
		Method: strings.ToUpper(req.LowerMethod()),
	}
	if u, err := url.Parse(req.FullURL()); err == nil {
		meta.Host = u.Host
		meta.Path = u.Path
	}
	return meta
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID carried by ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
