// Package telemetry wires OpenTelemetry tracing for cardex.
package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// DefaultServiceName is reported when Options.ServiceName is empty.
const DefaultServiceName = "cardex"

// Options configures tracing.
type Options struct {
	Enabled        bool
	Endpoint       string
	ServiceName    string
	ServiceVersion string
}

// ShutdownFunc flushes pending spans.
type ShutdownFunc func(context.Context) error

// Setup initialises OpenTelemetry tracing.
//
// Tracing is opt-in: when Enabled is false or Endpoint is empty, Setup returns
// a no-op shutdown function and the global provider is left untouched.
// The returned shutdown function should be deferred by the caller.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }

	if !opts.Enabled || opts.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(opts.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	name := opts.ServiceName
	if name == "" {
		name = DefaultServiceName
	}
	attrs := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(name)),
	}
	if opts.ServiceVersion != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceVersion(opts.ServiceVersion)))
	}

	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return noop, errors.Join(err, exporter.Shutdown(ctx))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
