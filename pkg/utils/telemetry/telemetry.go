// Package telemetry installs OpenTelemetry providers for the dashboard.
// Providers are no-op unless enabled, so instruments are always safe to use.
package telemetry

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationScope = "github.com/marcelogarciass/dashboard-projeto"

// Options selects the exporters installed by Init
type Options struct {
	ServiceName string
	Version     string
	// Stdout writes spans and metrics to Writer (stderr when nil)
	Stdout   bool
	Writer   io.Writer
	Interval time.Duration
}

// ShutdownFunc flushes and stops the installed providers
type ShutdownFunc func(context.Context) error

// Init configures global OTel providers. Without an exporter it installs
// no-op providers and returns a no-op shutdown.
func Init(ctx context.Context, opts Options) (ShutdownFunc, error) {
	if !opts.Stdout {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return func(context.Context) error { return nil }, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(opts.ServiceName),
			semconv.ServiceVersionKey.String(opts.Version),
		),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build telemetry resource")
	}

	traceExp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create trace exporter")
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExp),
	)

	metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, goerr.Wrap(err, "failed to create metric exporter")
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(interval))),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

// Tracer returns the tracer of the dashboard instrumentation scope
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationScope)
}

// Meter returns the meter of the dashboard instrumentation scope
func Meter() metric.Meter {
	return otel.Meter(instrumentationScope)
}
