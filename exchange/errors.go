package exchange

import (
	"context"
	"errors"
	"fmt"
)

// ErrCanceled marks a request that was cancelled by its caller. Errors that
// wrap it are never retried and never re-wrapped by the share engine.
var ErrCanceled = errors.New("exchange: request canceled")

// Error codes carried by *Error.
const (
	CodeNetwork     = "ERR_NETWORK"
	CodeTimeout     = "ECONNABORTED"
	CodeBadRequest  = "ERR_BAD_REQUEST"
	CodeBadResponse = "ERR_BAD_RESPONSE"
	CodeCanceled    = "ERR_CANCELED"
)

// Error is the error shape produced by transports and the transport loop.
type Error struct {
	Message string
	Code    string

	// Status overrides Response.Status for errors synthesized from an
	// application-level status check.
	Status int

	Request  *Request
	Response *Response

	// Err is the underlying cause, if any.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	default:
		return e.Message
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusCode returns the status the error represents, or 0 when the error
// carries no response.
func (e *Error) StatusCode() int {
	if e == nil {
		return 0
	}
	if e.Status != 0 {
		return e.Status
	}
	if e.Response != nil {
		return e.Response.Status
	}
	return 0
}

// NewStatusError builds the error for a response whose status failed
// validation.
func NewStatusError(resp *Response, status int) *Error {
	code := CodeBadRequest
	if status >= 500 {
		code = CodeBadResponse
	}
	var req *Request
	if resp != nil {
		req = resp.Request
	}
	return &Error{
		Message:  fmt.Sprintf("Request failed with status code %d", status),
		Code:     code,
		Status:   status,
		Request:  req,
		Response: resp,
	}
}

// IsCancel reports whether err represents a caller cancellation. Deadline
// expiry is not a cancellation.
func IsCancel(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// ResponseOf returns the response carried by err, if any.
func ResponseOf(err error) (*Response, bool) {
	var e *Error
	if errors.As(err, &e) && e.Response != nil {
		return e.Response, true
	}
	return nil, false
}

// StatusOf returns the status carried by err and whether it carries a
// response at all.
func StatusOf(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Response != nil {
		return e.StatusCode(), true
	}
	return 0, false
}

// Rewrap re-contextualises err for another caller's request. Cancellations
// are returned unchanged. The returned error never shares a response with
// err.
func Rewrap(err error, req *Request) error {
	if err == nil || IsCancel(err) {
		return err
	}
	var e *Error
	if errors.As(err, &e) {
		return &Error{
			Message:  e.Message,
			Code:     e.Code,
			Status:   e.Status,
			Request:  req,
			Response: CloneResponse(e.Response, req),
			Err:      e.Err,
		}
	}
	return &Error{Request: req, Err: err}
}

// ContextError converts a context error into the shape transports return:
// cancellation wraps ErrCanceled, deadline expiry becomes a CodeTimeout
// error. Other errors are returned unchanged.
func ContextError(err error, req *Request) error {
	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Code: CodeCanceled, Request: req, Err: fmt.Errorf("%w: %w", ErrCanceled, err)}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Message: "timeout exceeded", Code: CodeTimeout, Request: req, Err: err}
	default:
		return err
	}
}
