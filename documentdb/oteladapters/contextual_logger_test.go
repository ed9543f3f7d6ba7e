package oteladapters_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	"go.opentelemetry.io/otel/log/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/dconnelly/cosmosdb-go/documentdb/oteladapters"
	. "github.com/dconnelly/cosmosdb-go/testutil/helper" //nolint:revive
)

func Test_SlogBridgeLogger_WithHandler_WritesAllLevels(t *testing.T) {
	// setup
	logHandler := NewLogHandlerSpy(false)
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(logHandler)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "resolved response body", "body_kind", "string")
	logger.InfoContext(ctx, "materializer operation: query response materialized", "resource_count", 2)
	logger.WarnContext(ctx, "slow materialization")
	logger.ErrorContext(ctx, "materialization failed", "error", "boom")

	// assert
	assert.Equal(t, 4, logHandler.RecordCount())
	assert.True(t, logHandler.HasDebugLog("resolved response body").WithAttr("body_kind", "string").Assert())
	assert.True(t, logHandler.HasInfoLog("materializer operation: query response materialized").WithAttr("resource_count", "2").Assert())
	assert.True(t, logHandler.HasErrorLog("materialization failed").WithAttr("error", "boom").Assert())
}

func Test_SlogBridgeLogger_WithProvider_CorrelatesWithActiveSpan(t *testing.T) {
	// setup
	provider := &recordingLoggerProvider{}
	logger := oteladapters.NewSlogBridgeLoggerWithProvider("documentdb-test", provider)

	tracerProvider := sdktrace.NewTracerProvider()
	ctx, span := tracerProvider.Tracer("documentdb-test").Start(context.Background(), "materialize")
	defer span.End()

	// act
	logger.InfoContext(ctx, "materializer operation: resource materialized", "alt_link", "dbs/shop")

	// assert
	records := provider.logger.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "materializer operation: resource materialized", records[0].record.Body().AsString())
	assert.Equal(t, log.SeverityInfo, records[0].record.Severity())
	assert.Equal(t, span.SpanContext().TraceID(), records[0].spanContext.TraceID())
	assert.Equal(t, span.SpanContext().SpanID(), records[0].spanContext.SpanID())
}

func Test_SlogBridgeLogger_OnGlobalProvider_DoesNotPanic(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("documentdb-test")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "message", "key", "value")
	})
}

func Test_OTelLogger_EmitsRecordsWithSeverity(t *testing.T) {
	tests := []struct {
		name             string
		log              func(l *oteladapters.OTelLogger, ctx context.Context)
		expectedSeverity log.Severity
	}{
		{name: "debug", log: func(l *oteladapters.OTelLogger, ctx context.Context) { l.DebugContext(ctx, "msg") }, expectedSeverity: log.SeverityDebug},
		{name: "info", log: func(l *oteladapters.OTelLogger, ctx context.Context) { l.InfoContext(ctx, "msg") }, expectedSeverity: log.SeverityInfo},
		{name: "warn", log: func(l *oteladapters.OTelLogger, ctx context.Context) { l.WarnContext(ctx, "msg") }, expectedSeverity: log.SeverityWarn},
		{name: "error", log: func(l *oteladapters.OTelLogger, ctx context.Context) { l.ErrorContext(ctx, "msg") }, expectedSeverity: log.SeverityError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := &recordingLogger{}
			logger := oteladapters.NewOTelLogger(recorder)

			tc.log(logger, context.Background())

			records := recorder.Records()
			require.Len(t, records, 1)
			assert.Equal(t, tc.expectedSeverity, records[0].record.Severity())
			assert.Equal(t, "msg", records[0].record.Body().AsString())
		})
	}
}

func Test_OTelLogger_ConvertsAttributes(t *testing.T) {
	// setup
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	// act
	logger.InfoContext(context.Background(), "materializer operation: query response materialized",
		"resource_type", "Document",
		"resource_count", 3,
		"lsn", int64(42),
		"duration_ms", 1.5,
		"found", true,
		"error", errors.New("boom"),
		"headers", []string{"a"},
		42, "non-string key is dropped",
		"dangling",
	)

	// assert
	records := recorder.Records()
	require.Len(t, records, 1)

	attrs := map[string]log.Value{}
	records[0].record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	require.Len(t, attrs, 7)
	assert.Equal(t, "Document", attrs["resource_type"].AsString())
	assert.Equal(t, int64(3), attrs["resource_count"].AsInt64())
	assert.Equal(t, int64(42), attrs["lsn"].AsInt64())
	assert.InDelta(t, 1.5, attrs["duration_ms"].AsFloat64(), 0.0001)
	assert.True(t, attrs["found"].AsBool())
	assert.Equal(t, "boom", attrs["error"].AsString())
	assert.Equal(t, "[a]", attrs["headers"].AsString())
}

func Test_OTelLogger_OnNoopLogger_DoesNotPanic(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("documentdb-test"))

	assert.NotPanics(t, func() {
		logger.ErrorContext(context.Background(), "materialization failed", "error", "boom")
	})
}

type emittedRecord struct {
	record      log.Record
	spanContext trace.SpanContext
}

type recordingLogger struct {
	embedded.Logger

	mu      sync.Mutex
	records []emittedRecord
}

func (l *recordingLogger) Emit(ctx context.Context, record log.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, emittedRecord{
		record:      record,
		spanContext: trace.SpanContextFromContext(ctx),
	})
}

func (l *recordingLogger) Enabled(context.Context, log.Record) bool {
	return true
}

func (l *recordingLogger) Records() []emittedRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]emittedRecord(nil), l.records...)
}

type recordingLoggerProvider struct {
	embedded.LoggerProvider

	logger recordingLogger
}

func (p *recordingLoggerProvider) Logger(string, ...log.LoggerOption) log.Logger {
	return &p.logger
}
