package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
)

// redisPublisher is the subset of the redis client used for fan-out.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// EventPublisher broadcasts appointment events on a Redis pub/sub channel.
type EventPublisher struct {
	client  redisPublisher
	channel string
}

// NewEventPublisher constructs a publisher. A nil client turns Publish into a no-op.
func NewEventPublisher(client *redis.Client, channel string) *EventPublisher {
	p := &EventPublisher{channel: channel}
	if client != nil {
		p.client = client
	}
	return p
}

// Publish serialises the event and sends it to the configured channel.
func (p *EventPublisher) Publish(ctx context.Context, event models.AppointmentEvent) error {
	if p == nil || p.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}
