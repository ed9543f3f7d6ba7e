package main

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/dconnelly/cosmosdb-go/documentdb/materializer"
	"github.com/dconnelly/cosmosdb-go/documentdb/oteladapters"
)

const (
	serviceName       = "docmaterialize"
	instrumentName    = "github.com/dconnelly/cosmosdb-go/documentdb"
	shutdownTimeout   = 5 * time.Second
	metricsExportTick = 5 * time.Second
)

// telemetry holds the OpenTelemetry providers exporting to an OTLP gRPC endpoint.
type telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// newTelemetry sets up trace and metric export to endpoint.
func newTelemetry(ctx context.Context, endpoint string) (*telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return &telemetry{
		tracerProvider: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
		),
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(metricsExportTick))),
			sdkmetric.WithResource(res),
		),
	}, nil
}

// materializerOptions plugs the providers into a materializer.
func (t *telemetry) materializerOptions() []materializer.Option {
	return []materializer.Option{
		materializer.WithTracing(oteladapters.NewTracingCollector(t.tracerProvider.Tracer(instrumentName))),
		materializer.WithMetrics(oteladapters.NewMetricsCollector(t.meterProvider.Meter(instrumentName))),
	}
}

// shutdown flushes and stops both providers.
func (t *telemetry) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
}
