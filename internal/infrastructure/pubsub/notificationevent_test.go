package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

func newBus(t *testing.T) (*RedisNotificationBus, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisNotificationBus(client, logger.NewNopLogger()), mr
}

func TestRedisNotificationBus_PublishSubscribe(t *testing.T) {
	bus, _ := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan NotificationEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- bus.Subscribe(ctx, func(_ context.Context, e NotificationEvent) { received <- e })
	}()

	container := "D-9"
	intent, err := notification.NewIntent(notification.KindAssignmentOverdue, 7, 42, nil, &container,
		map[string]interface{}{"work_item_id": "T-1"}, time.Now())
	require.NoError(t, err)
	intent.SetID(5)

	// The subscriber needs a moment to register before anything is published.
	require.Eventually(t, func() bool {
		return bus.Publish(ctx, intent) == nil && len(received) > 0
	}, 2*time.Second, 20*time.Millisecond)

	got := <-received
	assert.Equal(t, uint(5), got.IntentID)
	assert.Equal(t, "assignment_overdue", got.Kind)
	assert.Equal(t, uint(7), got.RecipientID)
	assert.Equal(t, "assignment_overdue:assignment:42:user:7", got.DedupeKey)
	assert.Equal(t, "T-1", got.Payload["work_item_id"])

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRedisNotificationBus_PublishFailsWhenRedisIsDown(t *testing.T) {
	bus, mr := newBus(t)
	mr.Close()

	intent, err := notification.NewIntent(notification.KindAssignmentOverdue, 7, 42, nil, nil, nil, time.Now())
	require.NoError(t, err)

	assert.Error(t, bus.Publish(context.Background(), intent))
}
