package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonwraymond/reqslots/exchange"
)

type settings struct {
	client  *http.Client
	headers http.Header
}

// Option customises the transport.
type Option func(*settings)

// WithHTTPClient sets the client used for round trips. Defaults to a client
// without timeout; per-request Timeout applies instead. A client with a
// cookie jar enables XSRF header propagation.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.client = c }
}

// WithHeaders sets headers sent with every request unless the request sets
// them itself.
func WithHeaders(h http.Header) Option {
	return func(s *settings) { s.headers = h.Clone() }
}

// New returns a Transport backed by net/http.
func New(opts ...Option) exchange.Transport {
	s := &settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.client == nil {
		s.client = &http.Client{}
	}
	return s.roundTrip
}

func (s *settings) roundTrip(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	u, err := buildURL(req)
	if err != nil {
		return nil, &exchange.Error{Message: "invalid URL", Code: exchange.CodeBadRequest, Request: req, Err: err}
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.LowerMethod()), u.String(), body)
	if err != nil {
		return nil, &exchange.Error{Message: "invalid request", Code: exchange.CodeBadRequest, Request: req, Err: err}
	}
	for k, vals := range s.headers {
		httpReq.Header[k] = append([]string(nil), vals...)
	}
	for k, vals := range req.Headers {
		httpReq.Header[k] = append([]string(nil), vals...)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	s.applyXSRF(httpReq, req, u)

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, classify(err, req)
	}
	defer httpResp.Body.Close()

	data, err := readBody(httpResp.Body, req)
	if err != nil {
		return nil, err
	}

	resp := &exchange.Response{
		Status:     httpResp.StatusCode,
		StatusText: statusText(httpResp),
		Headers:    httpResp.Header,
		Data:       data,
		Request:    req,
	}

	validate := req.ValidateStatus
	if validate == nil {
		validate = exchange.DefaultValidateStatus
	}
	if !validate(resp.Status) {
		return nil, exchange.NewStatusError(resp, resp.Status)
	}
	return resp, nil
}

func buildURL(req *exchange.Request) (*url.URL, error) {
	u, err := url.Parse(req.FullURL())
	if err != nil {
		return nil, err
	}
	if len(req.Params) > 0 {
		q := u.Query()
		for k, vals := range req.Params {
			for _, v := range vals {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// encodeBody returns the request body and the content type implied by it.
func encodeBody(req *exchange.Request) (io.Reader, string, error) {
	var (
		body        io.Reader
		size        = int64(-1)
		contentType string
	)

	switch d := req.Data.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		body, size = bytes.NewReader(d), int64(len(d))
	case string:
		body, size = strings.NewReader(d), int64(len(d))
		contentType = "text/plain; charset=utf-8"
	case io.Reader:
		body = d
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return nil, "", &exchange.Error{Message: "cannot encode request body", Code: exchange.CodeBadRequest, Request: req, Err: err}
		}
		body, size = bytes.NewReader(b), int64(len(b))
		contentType = "application/json"
	}

	if req.MaxBodyLength > 0 {
		if size > req.MaxBodyLength {
			return nil, "", bodyTooLarge(req)
		}
		if size < 0 {
			body = &limitedBody{r: body, remaining: req.MaxBodyLength, req: req}
		}
	}
	return body, contentType, nil
}

func bodyTooLarge(req *exchange.Request) error {
	return &exchange.Error{Message: "Request body larger than maxBodyLength limit", Code: exchange.CodeBadRequest, Request: req}
}

// limitedBody fails the upload once more than remaining bytes are read.
type limitedBody struct {
	r         io.Reader
	remaining int64
	req       *exchange.Request
}

func (l *limitedBody) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, bodyTooLarge(l.req)
	}
	return n, err
}

func readBody(r io.Reader, req *exchange.Request) ([]byte, error) {
	if req.MaxContentLength <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, classify(err, req)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, req.MaxContentLength+1))
	if err != nil {
		return nil, classify(err, req)
	}
	if int64(len(data)) > req.MaxContentLength {
		return nil, &exchange.Error{
			Message: fmt.Sprintf("maxContentLength size of %d exceeded", req.MaxContentLength),
			Code:    exchange.CodeBadResponse,
			Request: req,
		}
	}
	return data, nil
}

// classify maps a round-trip failure onto the exchange error codes.
func classify(err error, req *exchange.Request) error {
	var xe *exchange.Error
	if errors.As(err, &xe) {
		return xe
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return exchange.ContextError(err, req)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &exchange.Error{Message: "timeout exceeded", Code: exchange.CodeTimeout, Request: req, Err: err}
	}
	return &exchange.Error{Message: "Network Error", Code: exchange.CodeNetwork, Request: req, Err: err}
}

func (s *settings) applyXSRF(httpReq *http.Request, req *exchange.Request, u *url.URL) {
	if req.XSRFCookieName == "" || req.XSRFHeaderName == "" || s.client.Jar == nil {
		return
	}
	if httpReq.Header.Get(req.XSRFHeaderName) != "" {
		return
	}
	for _, c := range s.client.Jar.Cookies(u) {
		if c.Name == req.XSRFCookieName {
			httpReq.Header.Set(req.XSRFHeaderName, c.Value)
			return
		}
	}
}

func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text == "" || text == resp.Status {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
