// Package telemetry sets up OpenTelemetry tracing for command dispatch.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/1broseidon/tiletree"

// Config selects the exporter. An empty Endpoint disables tracing.
type Config struct {
	Endpoint    string // host:port of an OTLP/HTTP collector
	ServiceName string
	Insecure    bool
}

// Provider hands out the tracer and owns the exporter pipeline.
type Provider struct {
	tracer   oteltrace.Tracer
	provider *sdktrace.TracerProvider // nil when disabled
}

// Setup builds a provider from cfg.
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Endpoint == "" {
		return Disabled(), nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}
	return WithExporter(exporter, cfg.ServiceName), nil
}

// WithExporter builds a provider that batches spans to exporter.
func WithExporter(exporter sdktrace.SpanExporter, serviceName string) *Provider {
	if serviceName == "" {
		serviceName = "tiletree"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return &Provider{
		tracer:   provider.Tracer(instrumentationName),
		provider: provider,
	}
}

// Disabled returns a provider whose spans are dropped.
func Disabled() *Provider {
	return &Provider{tracer: noop.NewTracerProvider().Tracer(instrumentationName)}
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.provider != nil
}

// Tracer returns the tracer to start spans with.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil {
		return noop.NewTracerProvider().Tracer(instrumentationName)
	}
	return p.tracer
}

// ForceFlush exports any buffered spans.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.provider.ForceFlush(ctx)
}

// Shutdown flushes and closes the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
