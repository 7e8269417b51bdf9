// Package eventpublisher relays committed outbox events to subscribers.
package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// Relay polls the outbox and hands unpublished events to a publisher.
type Relay struct {
	outboxRepo usecase.OutboxRepository
	publisher  usecase.EventPublisher
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	batchSize  int
	interval   time.Duration
	now        func() time.Time
}

// Config for Relay.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  usecase.EventPublisher
	Metrics    *metrics.Metrics
	Logger     *zerolog.Logger
	BatchSize  int           // events fetched per poll
	Interval   time.Duration // polling interval
}

// NewRelay creates a new Relay.
func NewRelay(cfg Config) *Relay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Relay{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		metrics:    cfg.Metrics,
		logger:     logger.With().Str("component", "outbox_relay").Logger(),
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
		now:        time.Now,
	}
}

// Start runs the relay until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info().
		Int("batch_size", r.batchSize).
		Dur("interval", r.interval).
		Msg("outbox relay started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	if _, err := r.ProcessBatch(ctx); err != nil {
		r.logger.Error().Err(err).Msg("error processing events on start")
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("outbox relay shutting down")
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil {
				r.logger.Error().Err(err).Msg("error processing events")
			}
		}
	}
}

// ProcessBatch publishes one batch of unpublished events and returns how many
// were delivered. A failed event stays in the outbox for the next poll.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	events, err := r.outboxRepo.GetUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, event := range events {
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.failed()
			r.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			continue
		}

		if err := r.outboxRepo.MarkPublished(ctx, event.ID, r.now()); err != nil {
			r.failed()
			r.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Msg("failed to mark event as published")
			continue
		}

		delivered++
		if r.metrics != nil {
			r.metrics.OutboxPublished.Inc()
		}
		r.logger.Debug().
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Str("aggregate_id", event.AggregateID).
			Msg("event published")
	}

	return delivered, nil
}

func (r *Relay) failed() {
	if r.metrics != nil {
		r.metrics.OutboxErrors.Inc()
	}
}

// LogPublisher writes events to a logger. It is used when no broker is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
