package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"order-fulfilment/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewRedisClient creates a Redis client from the configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// redisPublisher implements Publisher by appending events to a Redis stream.
type redisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger zerolog.Logger
}

// NewRedisPublisher creates a publisher appending to the configured stream.
// The stream is trimmed approximately to MaxLength entries.
func NewRedisPublisher(client *redis.Client, cfg config.RedisConfig, logger zerolog.Logger) Publisher {
	return &redisPublisher{
		client: client,
		stream: cfg.Stream,
		maxLen: cfg.MaxLength,
		logger: logger.With().Str("component", "redis-publisher").Logger(),
	}
}

// Publish appends the event to the stream.
func (p *redisPublisher) Publish(ctx context.Context, key string, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"event_id":   event.EventID,
			"event_type": event.EventType,
			"key":        key,
			"body":       string(body),
		},
	}).Result()
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("stream", p.stream).
			Str("event_id", event.EventID).
			Msg("failed to append to redis stream")
		return fmt.Errorf("failed to append to stream %s: %w", p.stream, err)
	}

	p.logger.Debug().
		Str("stream", p.stream).
		Str("entry_id", id).
		Str("event_type", event.EventType).
		Msg("event appended to redis stream")

	return nil
}

// Close closes the Redis client.
func (p *redisPublisher) Close() error {
	return p.client.Close()
}
