package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gowallet/internal/domain"
)

// DefaultEventsChannel is the pub/sub channel ledger events are sent to.
const DefaultEventsChannel = "gowallet.events"

// Message is the JSON envelope published for every outbox event.
type Message struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	AggregateID string         `json:"aggregate_id"`
	Payload     map[string]any `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Publisher implements usecase.EventPublisher over Redis pub/sub.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a Publisher. An empty channel uses DefaultEventsChannel.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultEventsChannel
	}
	return &Publisher{client: client, channel: channel}
}

// Publish sends the event to the channel.
func (p *Publisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	data, err := json.Marshal(Message{
		ID:          event.ID,
		Type:        event.EventType,
		AggregateID: event.AggregateID,
		Payload:     event.Payload,
		CreatedAt:   event.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, p.channel, data).Err()
}
