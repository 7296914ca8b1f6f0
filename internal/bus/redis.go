package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Publisher publishes serialized alert payloads to the notification topic.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// Handler consumes one topic message. Errors are the handler's own
// business: the bus delivers at least once and never retries.
type Handler func(ctx context.Context, payload []byte)

// Config holds connection parameters for the Redis topic.
type Config struct {
	Addr     string
	Username string
	Password string
	DB       int
	Topic    string
}

// RedisBus carries alert payloads over a single named Redis channel.
type RedisBus struct {
	client *redis.Client
	topic  string
	logger *slog.Logger
}

// New connects to Redis and pings it so connectivity problems surface
// at startup.
func New(cfg Config, logger *slog.Logger) (*RedisBus, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisBus{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Client exposes the underlying connection so the read cache can share it.
func (b *RedisBus) Client() *redis.Client {
	return b.client
}

// Publish sends one payload to the topic.
func (b *RedisBus) Publish(ctx context.Context, payload []byte) error {
	if err := b.client.Publish(ctx, b.topic, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", b.topic, err)
	}
	return nil
}

// Subscribe blocks consuming topic messages until ctx is cancelled,
// invoking handler for each payload in order of arrival.
func (b *RedisBus) Subscribe(ctx context.Context, handler Handler) error {
	sub := b.client.Subscribe(ctx, b.topic)
	defer sub.Close()

	// Force the subscription before reporting readiness.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", b.topic, err)
	}
	b.logger.Info("subscribed to alert topic", slog.String("topic", b.topic))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handler(ctx, []byte(msg.Payload))
		}
	}
}

// Close releases the Redis connection.
func (b *RedisBus) Close() error {
	return b.client.Close()
}
