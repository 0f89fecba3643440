package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// DefaultEventsChannel is the pub/sub channel movements are announced on.
const DefaultEventsChannel = "stockroom.movements"

// MovementRecordedEvent announces a committed movement.
type MovementRecordedEvent struct {
	RecordID       uuid.UUID       `json:"recordId"`
	ProductID      uuid.UUID       `json:"productId"`
	Kind           Kind            `json:"type"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	QuantityBefore int64           `json:"quantityBefore"`
	QuantityAfter  int64           `json:"quantityAfter"`
	RecordedAt     time.Time       `json:"recordedAt"`
}

// Publisher delivers movement notifications after commit.
type Publisher interface {
	PublishMovement(ctx context.Context, evt MovementRecordedEvent) error
}

// RedisPublisher publishes events as JSON on a Redis channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher builds a publisher. A nil client yields a no-op publisher.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultEventsChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// PublishMovement implements Publisher.
func (p *RedisPublisher) PublishMovement(ctx context.Context, evt MovementRecordedEvent) error {
	if p == nil || p.client == nil {
		return nil
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}
