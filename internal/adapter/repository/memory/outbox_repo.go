package memory

import (
	"context"
	"errors"
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// ErrEventNotFound is returned when marking an unknown outbox event.
var ErrEventNotFound = errors.New("outbox event not found")

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create stages an event.
func (r *OutboxRepository) Create(_ context.Context, tx usecase.Tx, event *domain.OutboxEvent) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	t.events = append(t.events, event)

	return nil
}

// GetUnpublished returns up to limit unpublished events in commit order.
func (r *OutboxRepository) GetUnpublished(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*domain.OutboxEvent, 0)
	for _, e := range r.store.outbox {
		if e.Published {
			continue
		}
		if limit > 0 && len(events) >= limit {
			break
		}
		out := *e
		events = append(events, &out)
	}

	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(_ context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.outbox {
		if e.ID == id {
			at := publishedAt
			e.Published = true
			e.PublishedAt = &at
			return nil
		}
	}

	return ErrEventNotFound
}
