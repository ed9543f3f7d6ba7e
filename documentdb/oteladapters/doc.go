// Package oteladapters provides OpenTelemetry implementations of the documentdb observability interfaces.
//
// The materializer only knows the dependency-free interfaces from package documentdb; these adapters
// plug it into an OpenTelemetry setup:
//   - MetricsCollector: histograms, counters and gauges created on demand from a metric.Meter
//   - TracingCollector: spans from a trace.Tracer, with status strings mapped to span status codes
//   - SlogBridgeLogger: a ContextualLogger on the otelslog bridge, correlating log records with spans
//   - OTelLogger: a ContextualLogger emitting records through the OpenTelemetry log API directly
//
// Usage:
//
//	m, _ := materializer.New(resp,
//		materializer.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter("documentdb"))),
//		materializer.WithTracing(oteladapters.NewTracingCollector(tracerProvider.Tracer("documentdb"))),
//		materializer.WithContextualLogger(oteladapters.NewSlogBridgeLogger("documentdb")),
//	)
package oteladapters
