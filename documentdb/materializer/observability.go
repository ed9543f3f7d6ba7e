package materializer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dconnelly/cosmosdb-go/documentdb"
)

// Metric names.
const (
	metricMaterializeDuration = "documentdb_materialize_duration_seconds"
	metricResourcesTotal      = "documentdb_materialize_resources_total"
	metricErrorsTotal         = "documentdb_materialize_errors_total"
)

// Span names and attributes.
const (
	spanNameResource        = "documentdb.materialize.resource"
	spanNameQuery           = "documentdb.materialize.query"
	spanAttrOperation       = "operation"
	spanAttrResourceType    = "resource_type"
	spanAttrBodyKind        = "body_kind"
	spanAttrStatusCode      = "status_code"
	spanAttrResourceCount   = "resource_count"
	spanAttrDurationMS      = "duration_ms"
	spanAttrErrorType       = "error_type"
	metricLabelStatus       = "status"
	metricLabelResourceType = "resource_type"
)

// Status values.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// Error types used as span attributes and metric labels.
const (
	errorTypeUnknownResourceType   = "unknown_resource_type"
	errorTypeUnsupportedShape      = "unsupported_element_shape"
	errorTypeMalformedJSONBody     = "malformed_json_body"
	errorTypeResourceShapeMismatch = "resource_shape_mismatch"
	errorTypeConstructionFailed    = "resource_construction_failed"
	errorTypeOther                 = "other"
)

// classifyError maps a materialization error to its error type label.
// The most specific sentinel wins, construction failures are only reported as such when nothing narrower matched.
func classifyError(err error) string {
	switch {
	case errors.Is(err, documentdb.ErrUnknownResourceType):
		return errorTypeUnknownResourceType
	case errors.Is(err, documentdb.ErrUnsupportedElementShape):
		return errorTypeUnsupportedShape
	case errors.Is(err, documentdb.ErrMalformedJSONBody):
		return errorTypeMalformedJSONBody
	case errors.Is(err, documentdb.ErrResourceShapeMismatch):
		return errorTypeResourceShapeMismatch
	case errors.Is(err, documentdb.ErrResourceConstructionFailed):
		return errorTypeConstructionFailed
	default:
		return errorTypeOther
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d.Nanoseconds())/1e6)
}

// === Logging ===
// Every message goes to the plain logger and to the contextual logger, whichever are configured.

// logDebug logs body handling details at debug level.
func (m *Materializer) logDebug(ctx context.Context, msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}

	if m.contextualLogger != nil {
		m.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

// logOperation logs operational information at info level.
func (m *Materializer) logOperation(ctx context.Context, action string, args ...any) {
	if m.logger != nil {
		m.logger.Info(logMsgOperation+action, args...)
	}

	if m.contextualLogger != nil {
		m.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logError logs a failed materialization at error level.
func (m *Materializer) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if m.logger != nil {
		m.logger.Error(message, allArgs...)
	}

	if m.contextualLogger != nil {
		m.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// observeError reports one failed materialization to every configured collector.
func (m *Materializer) observeError(
	ctx context.Context,
	tracing *tracingObserver,
	metrics *metricsObserver,
	t documentdb.ResourceType,
	err error,
	duration time.Duration,
) {

	errorType := classifyError(err)

	tracing.finishError(errorType, duration)
	metrics.recordError(t, errorType, duration)

	m.logError(ctx, logMsgMaterializeFailed, err,
		logAttrResourceType, string(t),
		logAttrBodyKind, documentdb.BodyKind(m.response.Body()),
		logAttrDurationMS, toMilliseconds(duration))
}

// === Tracing Observer Pattern ===

// tracingObserver encapsulates the span lifecycle of one materialization call.
type tracingObserver struct {
	m    *Materializer
	span documentdb.SpanContext
}

// startTracing starts a span if the tracing collector is configured.
func (m *Materializer) startTracing(
	ctx context.Context,
	spanName string,
	operation string,
	t documentdb.ResourceType,
) (*tracingObserver, context.Context) {

	observer := &tracingObserver{m: m}

	if m.tracingCollector == nil {
		return observer, ctx
	}

	attrs := map[string]string{
		spanAttrOperation:    operation,
		spanAttrResourceType: string(t),
		spanAttrBodyKind:     documentdb.BodyKind(m.response.Body()),
		spanAttrStatusCode:   fmt.Sprintf("%d", m.response.StatusCode()),
	}

	newCtx, span := m.tracingCollector.StartSpan(ctx, spanName, attrs)
	observer.span = span

	return observer, newCtx
}

// finishSuccess completes the span of a successful call.
func (o *tracingObserver) finishSuccess(resourceCount int, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(statusSuccess)
	o.span.AddAttribute(spanAttrResourceCount, fmt.Sprintf("%d", resourceCount))
	o.span.AddAttribute(spanAttrDurationMS, formatMilliseconds(duration))

	o.m.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrResourceCount: fmt.Sprintf("%d", resourceCount),
	})
}

// finishError completes the span of a failed call.
func (o *tracingObserver) finishError(errorType string, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(statusError)
	o.span.AddAttribute(spanAttrErrorType, errorType)
	o.span.AddAttribute(spanAttrDurationMS, formatMilliseconds(duration))

	o.m.tracingCollector.FinishSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// === Metrics Observer Pattern ===

// metricsObserver encapsulates the metrics of one materialization call.
type metricsObserver struct {
	m         *Materializer
	ctx       context.Context
	operation string
}

// startMetrics creates a metrics observer for one operation.
func (m *Materializer) startMetrics(ctx context.Context, operation string) *metricsObserver {
	return &metricsObserver{
		m:         m,
		ctx:       ctx,
		operation: operation,
	}
}

// recordSuccess records the duration and the number of materialized resources.
func (o *metricsObserver) recordSuccess(t documentdb.ResourceType, resourceCount int, duration time.Duration) {
	labels := o.labels(t, statusSuccess)
	o.recordDuration(duration, labels)
	o.recordValue(float64(resourceCount), labels)
}

// recordError records the duration and increments the error counter.
func (o *metricsObserver) recordError(t documentdb.ResourceType, errorType string, duration time.Duration) {
	o.recordDuration(duration, o.labels(t, statusError))

	errorLabels := o.labels(t, statusError)
	errorLabels[spanAttrErrorType] = errorType
	o.incrementCounter(errorLabels)
}

func (o *metricsObserver) labels(t documentdb.ResourceType, status string) map[string]string {
	return map[string]string{
		spanAttrOperation:       o.operation,
		metricLabelResourceType: string(t),
		metricLabelStatus:       status,
	}
}

func (o *metricsObserver) recordDuration(duration time.Duration, labels map[string]string) {
	collector := o.m.metricsCollector
	if collector == nil {
		return
	}

	// Use context-aware method if available
	if contextual, ok := collector.(documentdb.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, metricMaterializeDuration, duration, labels)
		return
	}

	collector.RecordDuration(metricMaterializeDuration, duration, labels)
}

func (o *metricsObserver) recordValue(value float64, labels map[string]string) {
	collector := o.m.metricsCollector
	if collector == nil {
		return
	}

	if contextual, ok := collector.(documentdb.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(o.ctx, metricResourcesTotal, value, labels)
		return
	}

	collector.RecordValue(metricResourcesTotal, value, labels)
}

func (o *metricsObserver) incrementCounter(labels map[string]string) {
	collector := o.m.metricsCollector
	if collector == nil {
		return
	}

	if contextual, ok := collector.(documentdb.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(o.ctx, metricErrorsTotal, labels)
		return
	}

	collector.IncrementCounter(metricErrorsTotal, labels)
}
