package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// fakeWriter records written messages.
type fakeWriter struct {
	messages    []kafka.Message
	err         error
	hadDeadline bool
	closed      bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, w.hadDeadline = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testEvent() Event {
	return Event{
		EventID:      "4b0f3a52-8d9b-4c55-9d0a-0b7f8f0c1e11",
		EventType:    EventOutOfStock,
		EventVersion: 1,
		OccurredAt:   time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
		Producer:     "order-fulfilment",
		Payload:      json.RawMessage(`{"productName":"Watermelon"}`),
	}
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newKafkaPublisher(writer, "customer.notifications", time.Second, zerolog.Nop())

	err := publisher.Publish(context.Background(), "Watermelon", testEvent())
	require.NoError(t, err)

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "Watermelon", string(msg.Key))
	assert.Equal(t, EventOutOfStock, headerValue(msg.Headers, "x-event-type"))
	assert.Equal(t, "1", headerValue(msg.Headers, "x-event-version"))
	assert.True(t, writer.hadDeadline)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, testEvent().EventID, decoded.EventID)
	assert.JSONEq(t, `{"productName":"Watermelon"}`, string(decoded.Payload))
}

func TestKafkaPublisher_PropagatesTraceContext(t *testing.T) {
	previous := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(previous) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	writer := &fakeWriter{}
	publisher := newKafkaPublisher(writer, "customer.notifications", 0, zerolog.Nop())

	require.NoError(t, publisher.Publish(ctx, "Watermelon", testEvent()))

	require.Len(t, writer.messages, 1)
	assert.Equal(t,
		"00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
		headerValue(writer.messages[0].Headers, "traceparent"),
	)
	assert.False(t, writer.hadDeadline)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writeErr := errors.New("leader not available")
	writer := &fakeWriter{err: writeErr}
	publisher := newKafkaPublisher(writer, "customer.notifications", time.Second, zerolog.Nop())

	err := publisher.Publish(context.Background(), "Watermelon", testEvent())

	require.Error(t, err)
	assert.ErrorIs(t, err, writeErr)
	assert.Contains(t, err.Error(), "customer.notifications")
}

func TestKafkaPublisher_Close(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newKafkaPublisher(writer, "customer.notifications", time.Second, zerolog.Nop())

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestHeaderCarrier(t *testing.T) {
	headers := []kafka.Header{{Key: "x-event-type", Value: []byte("DelayNotification")}}
	carrier := &headerCarrier{headers: &headers}

	carrier.Set("traceparent", "a")
	carrier.Set("traceparent", "b")

	assert.Equal(t, "b", carrier.Get("traceparent"))
	assert.Equal(t, "", carrier.Get("missing"))
	assert.Equal(t, []string{"x-event-type", "traceparent"}, carrier.Keys())
	assert.Len(t, headers, 2)
}
