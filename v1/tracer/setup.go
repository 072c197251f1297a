package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracer owns the OpenTelemetry tracer provider of the process.
type Tracer struct {
	tracer *sdktrace.TracerProvider
	logger Logger
}

// NewClient builds a tracer provider from cfg, installs it and the W3C trace
// context propagator globally, and returns the client owning it.
func NewClient(cfg Config, logger Logger, opts ...sdktrace.TracerProviderOption) (*Tracer, error) {
	var options []sdktrace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("cannot initiate tracer: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	options = append(options, sdktrace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))
	options = append(options, opts...)

	tp := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator)

	return &Tracer{tracer: tp, logger: logger}, nil
}

// TracerProvider returns the provider, e.g. for messaging.WithTracerProvider.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	return t.tracer
}

// Shutdown flushes pending spans and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.tracer == nil {
		if t.logger != nil {
			t.logger.Warn("tracer was nil during shutdown", nil)
		}
		return nil
	}
	if t.logger != nil {
		t.logger.Info("Shutting down tracer", nil)
	}
	return t.tracer.Shutdown(ctx)
}

var propagator = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
