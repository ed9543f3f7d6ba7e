package materializer

import (
	"errors"

	"github.com/dconnelly/cosmosdb-go/documentdb"
)

// ErrInvalidMaxUnwrapDepth is returned when a non-positive aggregate unwrap depth is configured.
var ErrInvalidMaxUnwrapDepth = errors.New("max unwrap depth must be positive")

// Option defines a functional option for configuring a Materializer.
type Option func(*Materializer) error

// WithLogger sets the logger for the Materializer.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: body form and timing of every materialization (development use)
// Info level: resource counts and durations (production-safe)
// Error level: failures that abort a materialization.
func WithLogger(logger documentdb.Logger) Option {
	return func(m *Materializer) error {
		m.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Materializer.
// The contextual logger will receive the same messages with the call's context, enabling
// automatic trace/span correlation when tracing is enabled.
func WithContextualLogger(logger documentdb.ContextualLogger) Option {
	return func(m *Materializer) error {
		m.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Materializer.
// It will receive materialization durations, materialized resource counts and error counts.
func WithMetrics(collector documentdb.MetricsCollector) Option {
	return func(m *Materializer) error {
		m.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Materializer.
// Each Resource and QueryResponse call is wrapped in one span.
func WithTracing(collector documentdb.TracingCollector) Option {
	return func(m *Materializer) error {
		m.tracingCollector = collector
		return nil
	}
}

// WithMaxUnwrapDepth bounds how many singleton array layers an aggregate query result may be wrapped in.
// The default is documentdb.DefaultMaxUnwrapDepth.
func WithMaxUnwrapDepth(depth int) Option {
	return func(m *Materializer) error {
		if depth < 1 {
			return ErrInvalidMaxUnwrapDepth
		}

		m.maxUnwrapDepth = depth

		return nil
	}
}
