package cache

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/fingerprint"
)

// FormatConfig is the subset of request fields that identifies a cached
// response.
type FormatConfig struct {
	BaseURL string          `json:"baseURL"`
	URL     string          `json:"url"`
	Method  string          `json:"method"`
	Params  url.Values      `json:"params"`
	Data    json.RawMessage `json:"data"`
	Headers http.Header     `json:"headers"`
}

// NewFormatConfig copies the identifying fields out of req. The result
// shares no mutable state with req. Streaming bodies yield
// fingerprint.ErrUnkeyable.
func NewFormatConfig(req *exchange.Request) (*FormatConfig, error) {
	data, err := fingerprint.EncodeData(req.Data)
	if err != nil {
		return nil, err
	}
	c := req.Clone()
	return &FormatConfig{
		BaseURL: req.BaseURL,
		URL:     req.URL,
		Method:  req.LowerMethod(),
		Params:  c.Params,
		Data:    data,
		Headers: c.Headers,
	}, nil
}
