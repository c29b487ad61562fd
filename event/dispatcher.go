package event

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// OutboxSource reads and acknowledges undelivered events. The booking
// repository implements it on top of the outbox table.
type OutboxSource interface {
	ListUndeliveredEvents(ctx context.Context, limit int) ([]Event, error)
	MarkEventDelivered(ctx context.Context, id string) error
}

const defaultBatchSize = 100

// Dispatcher drains the outbox: it reads undelivered events, publishes
// them, and marks them delivered. A publish failure leaves the row in
// place for the next tick, so delivery is at-least-once.
type Dispatcher struct {
	source    OutboxSource
	publisher Publisher
	batchSize int
	logger    *zap.Logger
}

func NewDispatcher(source OutboxSource, publisher Publisher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		source:    source,
		publisher: publisher,
		batchSize: defaultBatchSize,
		logger:    logger.With(zap.String("component", "outbox-dispatcher")),
	}
}

// DispatchPending delivers one batch and returns the number of events
// successfully published.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	events, err := d.source.ListUndeliveredEvents(ctx, d.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list undelivered events: %w", err)
	}

	delivered := 0

	for _, evt := range events {
		if err := d.publisher.Publish(ctx, evt); err != nil {
			d.logger.Warn("failed to publish event, will retry",
				zap.String("eventId", evt.ID),
				zap.String("type", string(evt.Type)),
				zap.Error(err),
			)
			continue
		}

		if err := d.source.MarkEventDelivered(ctx, evt.ID); err != nil {
			// The event was published but not acknowledged; the next tick
			// republishes it. Consumers must tolerate duplicates.
			d.logger.Warn("failed to mark event delivered",
				zap.String("eventId", evt.ID),
				zap.Error(err),
			)
			continue
		}

		delivered++
	}

	return delivered, nil
}
