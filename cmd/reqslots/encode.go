package main

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v2"
)

// Encode writes v to w in one output format.
type Encode func(v any, w io.Writer) error

var encoders = map[string]Encode{
	"json": func(v any, w io.Writer) error {
		return json.NewEncoder(w).Encode(v)
	},
	"prettyjson": func(v any, w io.Writer) error {
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	},
	"yaml": func(v any, w io.Writer) error {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	},
	"body": func(v any, w io.Writer) error {
		r := v.(result)
		if r.Error != "" {
			_, err := fmt.Fprintf(w, "#%d error: %s\n", r.Index, r.Error)
			return err
		}
		_, err := fmt.Fprintln(w, r.Body)
		return err
	},
}

// result is the printable outcome of one call.
type result struct {
	Index    int                 `json:"index" yaml:"index"`
	Status   int                 `json:"status,omitempty" yaml:"status,omitempty"`
	Headers  map[string][]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body     string              `json:"body,omitempty" yaml:"body,omitempty"`
	Error    string              `json:"error,omitempty" yaml:"error,omitempty"`
	Code     string              `json:"code,omitempty" yaml:"code,omitempty"`
	Duration string              `json:"duration" yaml:"duration"`
}
