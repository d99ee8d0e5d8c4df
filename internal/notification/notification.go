// Package notification delivers customer notices raised while processing orders.
// Each notice becomes an Event that a Publisher hands to a transport.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"order-fulfilment/internal/config"
	"order-fulfilment/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Event types
const (
	EventDelay      = "DelayNotification"
	EventOutOfStock = "OutOfStockNotification"
	EventExpiration = "ExpirationNotification"
)

// Notifier defines the notification operations invoked while processing orders.
type Notifier interface {
	// SendDelayNotification tells the customer the product ships in leadTimeDays days.
	SendDelayNotification(ctx context.Context, leadTimeDays int, productName string) error

	// SendOutOfStockNotification tells the customer the product is unavailable.
	SendOutOfStockNotification(ctx context.Context, productName string) error

	// SendExpirationNotification tells the customer the product cannot be shipped because it expired.
	SendExpirationNotification(ctx context.Context, product model.ProductRef) error
}

// Publisher delivers events to a transport.
type Publisher interface {
	// Publish delivers the event; key groups events that must stay ordered.
	Publish(ctx context.Context, key string, event Event) error

	// Close releases resources held by the publisher.
	Close() error
}

// Event is the envelope published for every notification.
type Event struct {
	EventID      string          `json:"eventId"`
	EventType    string          `json:"eventType"`
	EventVersion int             `json:"eventVersion"`
	OccurredAt   time.Time       `json:"occurredAt"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

// DelayPayload is the payload of a delay notification.
type DelayPayload struct {
	LeadTimeDays int    `json:"leadTimeDays"`
	ProductName  string `json:"productName"`
}

// OutOfStockPayload is the payload of an out-of-stock notification.
type OutOfStockPayload struct {
	ProductName string `json:"productName"`
}

// ExpirationPayload is the payload of an expiration notification.
type ExpirationPayload struct {
	Product model.ProductRef `json:"product"`
}

var tracer = otel.Tracer("order-fulfilment/notification")

// notifier implements Notifier on top of a Publisher.
type notifier struct {
	publisher Publisher
	producer  string
	now       func() time.Time
	logger    zerolog.Logger
}

// NewNotifier creates a notifier that publishes events through publisher.
func NewNotifier(publisher Publisher, producer string, logger zerolog.Logger) Notifier {
	return &notifier{
		publisher: publisher,
		producer:  producer,
		now:       time.Now,
		logger:    logger.With().Str("component", "notifier").Logger(),
	}
}

// SendDelayNotification publishes a delay notification.
func (n *notifier) SendDelayNotification(ctx context.Context, leadTimeDays int, productName string) error {
	return n.publish(ctx, EventDelay, productName, DelayPayload{
		LeadTimeDays: leadTimeDays,
		ProductName:  productName,
	})
}

// SendOutOfStockNotification publishes an out-of-stock notification.
func (n *notifier) SendOutOfStockNotification(ctx context.Context, productName string) error {
	return n.publish(ctx, EventOutOfStock, productName, OutOfStockPayload{
		ProductName: productName,
	})
}

// SendExpirationNotification publishes an expiration notification.
func (n *notifier) SendExpirationNotification(ctx context.Context, product model.ProductRef) error {
	return n.publish(ctx, EventExpiration, product.Name, ExpirationPayload{
		Product: product,
	})
}

func (n *notifier) publish(ctx context.Context, eventType, key string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	event := Event{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   n.now().UTC(),
		Producer:     n.producer,
		Payload:      body,
	}

	ctx, span := tracer.Start(ctx, "notification.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("notification.event_type", eventType),
			attribute.String("notification.event_id", event.EventID),
		),
	)
	defer span.End()

	if err := n.publisher.Publish(ctx, key, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		n.logger.Error().
			Err(err).
			Str("event_type", eventType).
			Str("event_id", event.EventID).
			Msg("failed to publish notification")
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	n.logger.Debug().
		Str("event_type", eventType).
		Str("event_id", event.EventID).
		Str("key", key).
		Msg("notification published")

	return nil
}

// NewPublisher creates the publisher selected by cfg.Notification.Transport.
func NewPublisher(cfg *config.Config, logger zerolog.Logger) (Publisher, error) {
	switch cfg.Notification.Transport {
	case config.TransportLog:
		return NewLogPublisher(logger), nil
	case config.TransportKafka:
		return NewKafkaPublisher(cfg.Kafka, logger), nil
	case config.TransportRedis:
		return NewRedisPublisher(NewRedisClient(cfg.Redis), cfg.Redis, logger), nil
	default:
		return nil, fmt.Errorf("unknown notification transport %q", cfg.Notification.Transport)
	}
}
