package share

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/fingerprint"
)

// FormatConfig is the subset of request fields that makes two in-flight
// requests interchangeable. It is wider than the cache subset: timeouts and
// size limits change what a caller may receive.
type FormatConfig struct {
	BaseURL          string          `json:"baseURL"`
	URL              string          `json:"url"`
	Method           string          `json:"method"`
	Params           url.Values      `json:"params"`
	Data             json.RawMessage `json:"data"`
	Headers          http.Header     `json:"headers"`
	Timeout          time.Duration   `json:"timeout"`
	MaxContentLength int64           `json:"maxContentLength"`
	MaxBodyLength    int64           `json:"maxBodyLength"`
	XSRFCookieName   string          `json:"xsrfCookieName"`
	XSRFHeaderName   string          `json:"xsrfHeaderName"`
}

// NewFormatConfig copies the identifying fields out of req. Streaming bodies
// yield fingerprint.ErrUnkeyable.
func NewFormatConfig(req *exchange.Request) (*FormatConfig, error) {
	data, err := fingerprint.EncodeData(req.Data)
	if err != nil {
		return nil, err
	}
	c := req.Clone()
	return &FormatConfig{
		BaseURL:          req.BaseURL,
		URL:              req.URL,
		Method:           req.LowerMethod(),
		Params:           c.Params,
		Data:             data,
		Headers:          c.Headers,
		Timeout:          req.Timeout,
		MaxContentLength: req.MaxContentLength,
		MaxBodyLength:    req.MaxBodyLength,
		XSRFCookieName:   req.XSRFCookieName,
		XSRFHeaderName:   req.XSRFHeaderName,
	}, nil
}
