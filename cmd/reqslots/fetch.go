package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/reqslots/config"
	"github.com/jonwraymond/reqslots/enhance"
	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/observe"
	"github.com/jonwraymond/reqslots/transport"
)

type fetchOptions struct {
	configPath  string
	method      string
	headers     []string
	data        string
	repeat      int
	concurrency int
	timeout     time.Duration
	output      string
	metricsAddr string
	noCache     bool
	noShare     bool
	noRetry     bool
}

func newFetchCmd() *cobra.Command {
	o := &fetchOptions{}
	c := &cobra.Command{
		Use:   "fetch URL",
		Short: "Send a request, optionally many times concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			o.configPath, _ = c.Flags().GetString("config")
			return o.run(c, args[0])
		},
	}

	f := c.Flags()
	f.StringVarP(&o.method, "method", "X", http.MethodGet, "HTTP method")
	f.StringArrayVarP(&o.headers, "header", "H", nil, "request header 'Name: value' (repeatable)")
	f.StringVarP(&o.data, "data", "d", "", "request body")
	f.IntVar(&o.repeat, "repeat", 1, "number of identical requests to send")
	f.IntVar(&o.concurrency, "concurrency", 1, "maximum requests in flight")
	f.DurationVar(&o.timeout, "timeout", 0, "per-attempt timeout (overrides config)")
	f.StringVarP(&o.output, "output", "o", "body", "output format {body, json, prettyjson, yaml}")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	f.BoolVar(&o.noCache, "no-cache", false, "bypass the cache")
	f.BoolVar(&o.noShare, "no-share", false, "do not share in-flight requests")
	f.BoolVar(&o.noRetry, "no-retry", false, "do not retry failed requests")
	return c
}

func (o *fetchOptions) validate() error {
	if o.repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", o.repeat)
	}
	if o.concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", o.concurrency)
	}
	if _, ok := encoders[o.output]; !ok {
		return fmt.Errorf("unknown --output %q", o.output)
	}
	return nil
}

func (o *fetchOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.metricsAddr != "" && !cfg.Observe.Metrics.Enabled {
		cfg.Observe.Metrics.Enabled = true
		cfg.Observe.Metrics.Exporter = "prometheus"
	}
	if cfg.Observe.Enabled() && cfg.Observe.ServiceName == "" {
		cfg.Observe.ServiceName = "reqslots"
	}
	if err := cfg.Resolve(ctx, nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseHeaders(raw []string) (http.Header, error) {
	h := http.Header{}
	for _, line := range raw {
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, want 'Name: value'", line)
		}
		h.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return h, nil
}

func (o *fetchOptions) run(c *cobra.Command, url string) error {
	if err := o.validate(); err != nil {
		return err
	}
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return err
	}

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := o.loadConfig(ctx)
	if err != nil {
		return err
	}

	opts := cfg.Options()
	if o.noCache {
		opts = append(opts, enhance.WithoutCache())
	}
	if o.noShare {
		opts = append(opts, enhance.WithoutShare())
	}
	if o.noRetry {
		opts = append(opts, enhance.WithoutRetry())
	}

	if cfg.Observe.Enabled() {
		obsCfg := cfg.Observe.ToObserve()
		obsCfg.Logging.Writer = c.ErrOrStderr()
		var reg *prometheus.Registry
		if o.metricsAddr != "" {
			reg = prometheus.NewRegistry()
			obsCfg.Metrics.Registerer = reg
		}
		obs, err := observe.NewObserver(ctx, obsCfg)
		if err != nil {
			return err
		}
		defer func() { _ = obs.Shutdown(context.Background()) }()
		opts = append(opts, enhance.WithObserver(obs))

		if reg != nil {
			ln, err := net.Listen("tcp", o.metricsAddr)
			if err != nil {
				return fmt.Errorf("metrics listener: %w", err)
			}
			defer serveMetrics(ln, reg)()
		}
	}

	var tr exchange.Transport = transport.New(transport.WithHeaders(cfg.HTTPHeaders()))
	dec, err := cfg.Decorator()
	if err != nil {
		return err
	}
	if dec != nil {
		tr = dec(tr)
	}

	client, err := enhance.New(tr, opts...)
	if err != nil {
		return err
	}

	timeout := cfg.Timeout
	if o.timeout > 0 {
		timeout = o.timeout
	}
	var data any
	if o.data != "" {
		data = o.data
	}

	results := make([]result, o.repeat)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i := 0; i < o.repeat; i++ {
		g.Go(func() error {
			req := &exchange.Request{
				Method:  o.method,
				URL:     url,
				Headers: headers.Clone(),
				Data:    data,
				Timeout: timeout,
			}
			start := time.Now()
			resp, err := client.Do(gctx, req)
			results[i] = toResult(i, resp, err, time.Since(start))
			return nil
		})
	}
	_ = g.Wait()

	encode := encoders[o.output]
	var failed int
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := encode(r, c.OutOrStdout()); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(results))
	}
	return nil
}

func toResult(i int, resp *exchange.Response, err error, d time.Duration) result {
	r := result{Index: i, Duration: d.Round(time.Microsecond).String()}
	if err != nil {
		r.Error = err.Error()
		var xe *exchange.Error
		if errors.As(err, &xe) {
			r.Code = xe.Code
		}
		if resp, ok := exchange.ResponseOf(err); ok {
			r.Status = resp.Status
		}
		return r
	}
	r.Status = resp.Status
	r.Headers = resp.Headers
	r.Body = string(resp.Data)
	return r
}

// serveMetrics exposes reg on ln until the returned stop func is called.
func serveMetrics(ln net.Listener, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = srv.Serve(ln)
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		wg.Wait()
	}
}
