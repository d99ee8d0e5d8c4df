package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// logPublisher implements Publisher by writing events to the log.
type logPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a publisher that only logs events.
func NewLogPublisher(logger zerolog.Logger) Publisher {
	return &logPublisher{
		logger: logger.With().Str("component", "log-publisher").Logger(),
	}
}

// Publish logs the event.
func (p *logPublisher) Publish(ctx context.Context, key string, event Event) error {
	p.logger.Info().
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Str("key", key).
		RawJSON("payload", event.Payload).
		Msg("customer notification")
	return nil
}

// Close is a no-op.
func (p *logPublisher) Close() error {
	return nil
}
