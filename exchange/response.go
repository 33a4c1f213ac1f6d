package exchange

import "net/http"

// Response is the result of a successful transport call.
type Response struct {
	Status     int
	StatusText string
	Headers    http.Header
	Data       []byte

	// Request is the request this response is handed to. Engines that
	// serve one response to several callers retag copies with each
	// caller's own request.
	Request *Request
}

// CloneResponse returns a copy of resp that shares no mutable state with
// it, tagged with req. It returns nil for a nil response.
func CloneResponse(resp *Response, req *Request) *Response {
	if resp == nil {
		return nil
	}
	c := &Response{
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Headers:    resp.Headers.Clone(),
		Request:    req,
	}
	if resp.Data != nil {
		c.Data = append(make([]byte, 0, len(resp.Data)), resp.Data...)
	}
	return c
}
