package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(tracing bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewWithZap(zap.New(core), tracing), logs
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, levelFor(Debug))
	assert.Equal(t, zapcore.InfoLevel, levelFor(Info))
	assert.Equal(t, zapcore.WarnLevel, levelFor(Warning))
	assert.Equal(t, zapcore.ErrorLevel, levelFor(Error))
	assert.Equal(t, zapcore.InfoLevel, levelFor("verbose"))
}

func TestErrorIncludesErrorAndFields(t *testing.T) {
	log, logs := observed(false)

	log.Error("fetch failed", errors.New("boom"), map[string]interface{}{"schema_id": "abc"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "fetch failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "abc", fields["schema_id"])
}

func TestWithContextAddsTraceIDs(t *testing.T) {
	log, logs := observed(true)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	log.InfoWithContext(ctx, "encoded", nil)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestWithContextWithoutTracing(t *testing.T) {
	log, logs := observed(false)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	log.WarnWithContext(ctx, "slow registry", nil)

	require.Equal(t, 1, logs.Len())
	_, ok := logs.All()[0].ContextMap()["trace_id"]
	assert.False(t, ok)
}
