// Package helper provides testing utilities for the documentdb packages.
//
// It contains spies for the documentdb observability interfaces (a slog.Handler capturing log records,
// a metrics collector and a tracing collector) and builders for the response bodies used across the tests.
package helper
