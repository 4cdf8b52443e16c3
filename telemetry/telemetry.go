// Package telemetry installs an OTLP/HTTP trace exporter as the global
// OpenTelemetry tracer provider, so sort spans reach a collector.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/amp-labs/amp-sortby/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	defaultServiceVersion = "1.0.0"
	defaultTimeout        = 5 * time.Second
)

// Config holds the exporter settings. Tracing stays off while Endpoint is empty.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Timeout        time.Duration
}

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Initialize sets up tracing and returns the function that tears it down.
// With no endpoint configured it installs nothing and the returned
// function does nothing.
func Initialize(ctx context.Context, config Config) (ShutdownFunc, error) {
	log := logger.Get(ctx)

	if config.Endpoint == "" {
		log.Debug("OpenTelemetry endpoint not configured, tracing is disabled")

		return noopShutdown, nil
	}

	if config.ServiceName == "" {
		config.ServiceName = logger.GetSubsystem(ctx)
	}

	if config.ServiceVersion == "" {
		config.ServiceVersion = defaultServiceVersion
	}

	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("OpenTelemetry tracing initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"endpoint", config.Endpoint,
	)

	return func(ctx context.Context) error {
		logger.Get(ctx).Debug("shutting down OpenTelemetry tracer provider")

		return provider.Shutdown(ctx)
	}, nil
}
