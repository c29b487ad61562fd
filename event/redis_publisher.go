package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const defaultStream = "booking-events"

// RedisPublisher appends events to a Redis stream consumed by the
// notification and analytics services.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	if stream == "" {
		stream = defaultStream
	}
	return &RedisPublisher{client: client, stream: stream}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"id":        evt.ID,
			"type":      string(evt.Type),
			"bookingId": evt.BookingID,
			"tenantId":  evt.TenantID,
			"payload":   string(payload),
			"timestamp": evt.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		},
	}).Err()

	if err != nil {
		return fmt.Errorf("failed to publish event to stream %v: %w", p.stream, err)
	}

	return nil
}
