package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/trivia-api/internal/question"
)

// DefaultChannel carries question bank change events.
const DefaultChannel = "trivia:questions"

// Publisher pushes question changes onto a Redis Pub/Sub channel.
type Publisher struct {
	redis   *redis.Client
	channel string
}

// NewPublisher creates a Redis backed question.Notifier.
func NewPublisher(redis *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{redis: redis, channel: channel}
}

// Notify publishes change as JSON.
func (p *Publisher) Notify(ctx context.Context, change question.Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := p.redis.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}
