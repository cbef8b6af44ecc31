package database

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	return exporter
}

func newTracedClient(t *testing.T, threshold time.Duration, logger *slog.Logger) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr(), SlowCommand: threshold}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func spanNamed(spans tracetest.SpanStubs, name string) *tracetest.SpanStub {
	for i := range spans {
		if spans[i].Name == name {
			return &spans[i]
		}
	}
	return nil
}

func TestTracingHook_SpanPerCommand(t *testing.T) {
	exporter := setupTestTracer(t)
	client, _ := newTracedClient(t, 0, nil)

	require.NoError(t, client.Set(context.Background(), "counselctl:credential:default", "tok", time.Minute).Err())

	span := spanNamed(exporter.GetSpans(), "redis.set")
	require.NotNil(t, span)

	attrs := make(map[string]string)
	for _, a := range span.Attributes {
		attrs[string(a.Key)] = a.Value.Emit()
	}
	assert.Equal(t, "redis", attrs["db.system"])
	assert.Equal(t, "set", attrs["db.operation"])
	for _, v := range attrs {
		assert.NotContains(t, v, "tok")
	}
}

func TestTracingHook_MissIsNotAnError(t *testing.T) {
	exporter := setupTestTracer(t)
	client, _ := newTracedClient(t, 0, nil)

	err := client.Get(context.Background(), "absent").Err()
	require.ErrorIs(t, err, redis.Nil)

	span := spanNamed(exporter.GetSpans(), "redis.get")
	require.NotNil(t, span)
	assert.NotEqual(t, codes.Error, span.Status.Code)
}

func TestTracingHook_FailureSetsError(t *testing.T) {
	exporter := setupTestTracer(t)
	client, mr := newTracedClient(t, 0, nil)

	mr.SetError("ERR injected failure")
	err := client.Del(context.Background(), "k").Err()
	require.Error(t, err)

	span := spanNamed(exporter.GetSpans(), "redis.del")
	require.NotNil(t, span)
	assert.Equal(t, codes.Error, span.Status.Code)
}

func TestTracingHook_Pipeline(t *testing.T) {
	exporter := setupTestTracer(t)
	client, _ := newTracedClient(t, 0, nil)

	_, err := client.Pipelined(context.Background(), func(p redis.Pipeliner) error {
		p.Set(context.Background(), "a", "1", 0)
		p.Expire(context.Background(), "a", time.Minute)
		return nil
	})
	require.NoError(t, err)
	assert.NotNil(t, spanNamed(exporter.GetSpans(), "redis.pipeline"))
}

func TestTracingHook_SlowCommandLogging(t *testing.T) {
	setupTestTracer(t)

	var buf bytes.Buffer
	client, _ := newTracedClient(t, time.Nanosecond, slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	assert.Contains(t, buf.String(), "slow redis command")
	assert.Contains(t, buf.String(), `"operation":"set"`)
}

func TestTracingHook_FastCommandNotLogged(t *testing.T) {
	setupTestTracer(t)

	var buf bytes.Buffer
	client, _ := newTracedClient(t, time.Hour, slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	assert.NotContains(t, buf.String(), "slow redis command")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}
