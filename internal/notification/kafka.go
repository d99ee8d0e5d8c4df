package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"order-fulfilment/internal/config"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher implements Publisher by writing events to a Kafka topic.
type kafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to the configured topic.
// Writes are synchronous and wait for all in-sync replicas.
func NewKafkaPublisher(cfg config.KafkaConfig, logger zerolog.Logger) Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("kafka notification publisher initialised")

	return newKafkaPublisher(writer, cfg.Topic, cfg.WriteTimeout, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, timeout time.Duration, logger zerolog.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		writer:  writer,
		topic:   topic,
		timeout: timeout,
		logger:  logger.With().Str("component", "kafka-publisher").Logger(),
	}
}

// Publish writes the event to Kafka keyed by key.
func (p *kafkaPublisher) Publish(ctx context.Context, key string, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	headers := []kafka.Header{
		{Key: "x-event-type", Value: []byte(event.EventType)},
		{Key: "x-event-version", Value: []byte(strconv.Itoa(event.EventVersion))},
	}
	otel.GetTextMapPropagator().Inject(ctx, &headerCarrier{headers: &headers})

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: headers,
		Time:    event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().
			Err(err).
			Str("topic", p.topic).
			Str("event_id", event.EventID).
			Msg("failed to write kafka message")
		return fmt.Errorf("failed to write to topic %s: %w", p.topic, err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// headerCarrier adapts Kafka headers to an OpenTelemetry TextMapCarrier.
type headerCarrier struct {
	headers *[]kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i, h := range *c.headers {
		if h.Key == key {
			(*c.headers)[i].Value = []byte(value)
			return
		}
	}
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}
