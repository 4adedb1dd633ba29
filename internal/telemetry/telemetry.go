// Package telemetry sets up tracing and error reporting for the API server.
package telemetry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"fairway/backend/pkg/logger"
)

// ShutdownFunc flushes and stops a telemetry pipeline.
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// InitTracing installs a global tracer provider exporting to an OTLP/HTTP collector.
// An empty endpoint leaves tracing disabled.
func InitTracing(ctx context.Context, endpoint, serviceName, env string) (ShutdownFunc, error) {
	if endpoint == "" {
		logger.Info("tracing disabled, OTEL_EXPORTER_OTLP_ENDPOINT not set")
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("deployment.environment", env),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("tracing enabled", zap.String("endpoint", endpoint))
	return tp.Shutdown, nil
}

// InitSentry configures error reporting. An empty DSN leaves it disabled.
func InitSentry(dsn, env, release string) (ShutdownFunc, error) {
	if dsn == "" {
		return noop, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return noop, err
	}
	logger.Info("sentry enabled", zap.String("environment", env))
	return func(context.Context) error {
		sentry.Flush(2 * time.Second)
		return nil
	}, nil
}
