package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/shared/constants"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// NotificationEvent is the wire form of a stored intent, consumed by the delivery service.
type NotificationEvent struct {
	IntentID     uint                   `json:"intent_id"`
	Kind         string                 `json:"kind"`
	RecipientID  uint                   `json:"recipient_id"`
	AssignmentID uint                   `json:"assignment_id"`
	EscalationID *uint                  `json:"escalation_id,omitempty"`
	ContainerID  *string                `json:"container_id,omitempty"`
	DedupeKey    string                 `json:"dedupe_key"`
	Payload      map[string]interface{} `json:"payload"`
	Timestamp    int64                  `json:"timestamp"`
}

// NotificationEventHandler is a callback function for handling notification events
type NotificationEventHandler func(ctx context.Context, event NotificationEvent)

// RedisNotificationBus publishes intents on a Redis channel and lets tools tail it.
type RedisNotificationBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisNotificationBus(client *redis.Client, logger logger.Interface) *RedisNotificationBus {
	return &RedisNotificationBus{
		client:  client,
		channel: constants.NotificationChannel,
		logger:  logger,
	}
}

var _ notification.Publisher = (*RedisNotificationBus)(nil)

func (b *RedisNotificationBus) Publish(ctx context.Context, i *notification.Intent) error {
	event := NotificationEvent{
		IntentID:     i.ID(),
		Kind:         string(i.Kind()),
		RecipientID:  i.RecipientID(),
		AssignmentID: i.AssignmentID(),
		EscalationID: i.EscalationID(),
		ContainerID:  i.ContainerID(),
		DedupeKey:    i.DedupeKey(),
		Payload:      i.Payload(),
		Timestamp:    time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish notification event",
			"intent_id", event.IntentID,
			"kind", event.Kind,
			"recipient_id", event.RecipientID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("notification event published",
		"intent_id", event.IntentID,
		"kind", event.Kind,
		"recipient_id", event.RecipientID,
	)
	return nil
}

// Subscribe calls handler for every event until ctx is done.
func (b *RedisNotificationBus) Subscribe(ctx context.Context, handler NotificationEventHandler) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to notification events", "channel", b.channel)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("notification event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("notification event channel closed")
				return nil
			}

			var event NotificationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal notification event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}
			handler(ctx, event)
		}
	}
}
