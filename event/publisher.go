package event

import (
	"context"

	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// LogPublisher writes events to the log. Used in deployments without a
// message transport and as the fallback when Redis is not configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With(zap.String("component", "event-publisher"))}
}

func (p *LogPublisher) Publish(_ context.Context, evt Event) error {
	p.logger.Info("booking event",
		zap.String("type", string(evt.Type)),
		zap.String("bookingId", evt.BookingID),
		zap.String("tenantId", evt.TenantID),
		zap.Time("timestamp", evt.Timestamp),
	)
	return nil
}
