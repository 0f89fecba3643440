package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisherPublishesJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "test.movements")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(client, "test.movements")
	evt := MovementRecordedEvent{
		RecordID:       uuid.New(),
		ProductID:      uuid.New(),
		Kind:           KindSale,
		Quantity:       3,
		UnitPrice:      decimal.RequireFromString("9.99"),
		QuantityBefore: 10,
		QuantityAfter:  7,
		RecordedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishMovement(ctx, evt))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, "test.movements", msg.Channel)

	var got MovementRecordedEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	require.Equal(t, evt.RecordID, got.RecordID)
	require.Equal(t, KindSale, got.Kind)
	require.Equal(t, int64(7), got.QuantityAfter)
	require.True(t, evt.UnitPrice.Equal(got.UnitPrice))
}

func TestRedisPublisherWithoutClientIsNoop(t *testing.T) {
	pub := NewRedisPublisher(nil, "")
	require.NoError(t, pub.PublishMovement(context.Background(), MovementRecordedEvent{}))
}
