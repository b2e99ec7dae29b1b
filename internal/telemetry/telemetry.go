package telemetry

import (
	"context"
	"fmt"

	"github.com/aymenbt/minishop/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Init configures the global tracer provider with an OTLP/HTTP exporter.
// It returns a nil provider when no endpoint is configured; callers must
// handle that as "tracing disabled".
func Init(ctx context.Context, cfg *config.Config) (*sdktrace.TracerProvider, error) {

	if cfg.Telemetry.Endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Telemetry.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("minishop"),
		semconv.ServiceVersion("1.0.0"),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}
