package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/question"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// Broadcaster listens for Redis Pub/Sub question changes and forwards them to stream subscribers.
type Broadcaster struct {
	redis   *redis.Client
	hub     *ws.Hub
	channel string
	logger  zerolog.Logger
}

// NewBroadcaster creates a Pub/Sub powered change broadcaster.
func NewBroadcaster(redis *redis.Client, hub *ws.Hub, channel string, logger zerolog.Logger) *Broadcaster {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Broadcaster{
		redis:   redis,
		hub:     hub,
		channel: channel,
		logger:  logger.With().Str("component", "question_broadcaster").Logger(),
	}
}

// Run subscribes to the change channel and blocks until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.redis == nil || b.hub == nil {
		return nil
	}

	sub := b.redis.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.logger.Info().Str("channel", b.channel).Msg("subscribed to question changes")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(msg.Payload)
		}
	}
}

func (b *Broadcaster) forward(payload string) {
	var change question.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		b.logger.Warn().Err(err).Msg("failed to decode question change payload")
		return
	}
	deliver(b.hub, change, b.logger)
}

// LocalNotifier delivers changes straight to the hub when no Redis is configured.
type LocalNotifier struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

func NewLocalNotifier(hub *ws.Hub, logger zerolog.Logger) *LocalNotifier {
	return &LocalNotifier{hub: hub, logger: logger.With().Str("component", "question_local_notifier").Logger()}
}

// Notify never fails. Slow subscribers are evicted by the hub.
func (n *LocalNotifier) Notify(_ context.Context, change question.Change) error {
	deliver(n.hub, change, n.logger)
	return nil
}

func deliver(hub *ws.Hub, change question.Change, logger zerolog.Logger) {
	msgType, ok := messageType(change.Kind)
	if !ok {
		logger.Warn().Str("kind", change.Kind).Msg("ignoring unknown change kind")
		return
	}

	msg, err := ws.NewMessage(msgType, change)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to marshal question change for stream")
		return
	}
	delivered := hub.Broadcast(msg)
	logger.Debug().Str("type", msgType).Int64("question_id", change.QuestionID).Int("delivered", delivered).Msg("question change streamed")
}

func messageType(kind string) (string, bool) {
	switch kind {
	case question.ChangeCreated:
		return ws.TypeQuestionCreated, true
	case question.ChangeDeleted:
		return ws.TypeQuestionDeleted, true
	default:
		return "", false
	}
}
