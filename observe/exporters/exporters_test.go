package exporters

import (
	"bytes"
	"context"
	"errors"
	"testing"

	promclient "github.com/prometheus/client_golang/prometheus"
)

func env(vals map[string]string) Option {
	return WithGetenv(func(k string) string { return vals[k] })
}

// TestExporter_InvalidName verifies unknown exporter names are rejected.
func TestExporter_InvalidName(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "jaeger")
	if !errors.Is(err, ErrUnknownExporter) {
		t.Fatalf("expected ErrUnknownExporter, got %v", err)
	}
	_, err = NewMetricsReader(context.Background(), "badvalue")
	if !errors.Is(err, ErrUnknownExporter) {
		t.Fatalf("expected ErrUnknownExporter, got %v", err)
	}
}

// TestExporter_StdoutTracing verifies the stdout span exporter writes to the configured writer.
func TestExporter_StdoutTracing(t *testing.T) {
	var buf bytes.Buffer
	exp, err := NewTracingExporter(context.Background(), "stdout", WithWriter(&buf))
	if err != nil {
		t.Fatalf("failed to create stdout tracing exporter: %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}
}

// TestExporter_StdoutMetrics verifies stdout metrics reader.
func TestExporter_StdoutMetrics(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "stdout", WithWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("failed to create stdout metrics reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

// TestExporter_OtlpMissingEndpoint verifies OTLP without endpoint env fails.
func TestExporter_OtlpMissingEndpoint(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "otlp", env(nil))
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Fatalf("expected ErrEndpointNotConfigured, got %v", err)
	}
	_, err = NewMetricsReader(context.Background(), "otlp", env(nil))
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Fatalf("expected ErrEndpointNotConfigured, got %v", err)
	}
}

// TestExporter_OtlpWithEndpoint verifies OTLP with a signal-specific endpoint succeeds.
func TestExporter_OtlpWithEndpoint(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "otlp",
		env(map[string]string{"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": "http://localhost:4317"}))
	if err != nil {
		t.Fatalf("failed to create OTLP exporter with endpoint: %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}
}

// TestExporter_PrometheusRegisterer verifies the prometheus reader registers with the given registry.
func TestExporter_PrometheusRegisterer(t *testing.T) {
	reg := promclient.NewRegistry()
	reader, err := NewMetricsReader(context.Background(), "prometheus", WithRegisterer(reg))
	if err != nil {
		t.Fatalf("failed to create Prometheus reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("gather: %v", err)
	}
}

// TestExporter_None verifies 'none' yields discarding exporters.
func TestExporter_None(t *testing.T) {
	if _, err := NewTracingExporter(context.Background(), "none"); err != nil {
		t.Fatalf("failed to create none exporter: %v", err)
	}
	if _, err := NewMetricsReader(context.Background(), ""); err != nil {
		t.Fatalf("failed to create none metrics reader: %v", err)
	}
}
