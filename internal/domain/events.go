package domain

import "time"

// Event types
const (
	EventTypeWalletCreated     = "wallet.created"
	EventTypeWalletDeposited   = "wallet.deposited"
	EventTypeWalletWithdrawn   = "wallet.withdrawn"
	EventTypeTransferCompleted = "transfer.completed"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     map[string]any
	CreatedAt   time.Time
	PublishedAt *time.Time
	Published   bool
}

// NewOutboxEvent builds an unpublished event.
func NewOutboxEvent(id, aggregateID, eventType string, payload map[string]any, now time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:          id,
		AggregateID: aggregateID,
		EventType:   eventType,
		Payload:     payload,
		CreatedAt:   now,
	}
}
