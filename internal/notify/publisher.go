package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/refresh"
)

// DefaultStream is the redis stream refresh messages are appended to
const DefaultStream = "bettingbuddy:refresh"

// StreamAdder is the redis call the publisher needs; *redis.Client satisfies it
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher appends refresh messages to a redis stream
type StreamPublisher struct {
	client StreamAdder
	stream string
	maxLen int64
}

// NewStreamPublisher creates a publisher. maxLen of 0 leaves the stream untrimmed.
func NewStreamPublisher(client StreamAdder, stream string, maxLen int64) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Publish appends one tick to the stream and returns the entry ID
func (p *StreamPublisher) Publish(ctx context.Context, event refresh.TickEvent) (string, error) {
	msg := NewTickMessage(event)
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshaling refresh message: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"type":    msg.Type,
			"tick_id": msg.TickID,
			"data":    string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}
	return id, nil
}

// Observer publishes each tick
func (p *StreamPublisher) Observer() refresh.Observer {
	return func(ctx context.Context, event refresh.TickEvent) error {
		_, err := p.Publish(ctx, event)
		metrics.RecordNotification("redis", err)
		return err
	}
}

// NewRedisClient connects and pings a redis server
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
