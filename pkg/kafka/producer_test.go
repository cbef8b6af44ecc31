package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/chrimztech/unza-counseling-console/pkg/logger"
)

var fixedNow = time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

// --- Event tests ---

func TestNewEvent_Fields(t *testing.T) {
	type SignedData struct {
		ConsentFormID string `json:"consent_form_id"`
	}

	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	ctx = logger.WithUserID(ctx, "42")
	data := SignedData{ConsentFormID: "7"}

	event, err := NewEvent(ctx, "consent.signed", "7", "consent_form", "counselctl", data, fixedNow)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "consent.signed", event.EventType)
	assert.Equal(t, "7", event.AggregateID)
	assert.Equal(t, "consent_form", event.AggregateType)
	assert.Equal(t, "counselctl", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, fixedNow, event.Timestamp)
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.Equal(t, "42", event.Metadata["user_id"])

	var decoded SignedData
	require.NoError(t, event.UnmarshalData(&decoded))
	assert.Equal(t, data, decoded)
}

func TestNewEvent_NoContextValues(t *testing.T) {
	event, err := NewEvent(context.Background(), "session.expired", "", "session", "counselctl", nil, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, event.CorrelationID)
	assert.NotContains(t, event.Metadata, "user_id")
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent(context.Background(), "test.event", "agg-1", "test", "svc", make(chan int), fixedNow)
	require.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	original, err := NewEvent(context.Background(), "consent.signed", "7", "consent_form", "counselctl", map[string]string{"ip": "unknown"}, fixedNow)
	require.NoError(t, err)
	original.WithMetadata("profile", "default")

	raw, err := original.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original.EventID, restored.EventID)
	assert.Equal(t, original.Metadata, restored.Metadata)
	assert.JSONEq(t, string(original.Data), string(restored.Data))
	assert.True(t, original.Timestamp.Equal(restored.Timestamp))
}

func TestEvent_WithMetadata_NilMap(t *testing.T) {
	event := &Event{EventID: "x"}
	assert.Same(t, event, event.WithMetadata("key", "value"))
	assert.Equal(t, "value", event.Metadata["key"])
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{broken json`))
	require.Error(t, err)
	_, err = UnmarshalEvent([]byte{})
	require.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "counseling.consent.signed", Topic("consent", "signed"))
	assert.Equal(t, "counseling.session.expired", Topic("session", "expired"))
}

// --- Producer tests ---

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func headerMap(hs []kafka.Header) map[string]string {
	m := make(map[string]string, len(hs))
	for _, h := range hs {
		m[h.Key] = string(h.Value)
	}
	return m
}

func TestProducer_Publish(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	ctx = logger.WithCorrelationID(ctx, "corr-9")

	const topic = "counseling.test.publish"
	before := testutil.ToFloat64(EventsPublished.WithLabelValues(topic, outcomeOK))

	w := &recordingWriter{}
	p := NewProducerWithWriter(w, []string{"localhost:9092"}, nil)
	event, err := NewEvent(ctx, "consent.signed", "7", "consent_form", "counselctl", map[string]int{"id": 7}, fixedNow)
	require.NoError(t, err)

	require.NoError(t, p.Publish(ctx, topic, event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, topic, msg.Topic)
	assert.Equal(t, []byte("7"), msg.Key)

	headers := headerMap(msg.Headers)
	assert.Equal(t, "consent.signed", headers["event_type"])
	assert.Equal(t, "counselctl", headers["source"])
	assert.Equal(t, "corr-9", headers["correlation_id"])
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", headers["traceparent"])

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)

	assert.InDelta(t, before+1, testutil.ToFloat64(EventsPublished.WithLabelValues(topic, outcomeOK)), 0.001)
}

func TestProducer_PublishError(t *testing.T) {
	const topic = "counseling.test.failure"
	before := testutil.ToFloat64(EventsPublished.WithLabelValues(topic, outcomeError))

	w := &recordingWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w, nil, nil)
	event, err := NewEvent(context.Background(), "session.expired", "u1", "session", "counselctl", nil, fixedNow)
	require.NoError(t, err)

	err = p.Publish(context.Background(), topic, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), topic)
	assert.InDelta(t, before+1, testutil.ToFloat64(EventsPublished.WithLabelValues(topic, outcomeError)), 0.001)
}

func TestProducer_Close(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, NewProducerWithWriter(w, nil, nil).Close())
	assert.True(t, w.closed)
}

func TestNewProducer_DoesNotConnect(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"localhost:19092"})
	assert.Equal(t, 1, cfg.BatchSize)

	p := NewProducer(cfg, nil)
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)
	assert.NoError(t, p.Close())
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(t.Context(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers configured")
}
