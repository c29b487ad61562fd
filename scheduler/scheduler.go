package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/slotbook/booking-backend/event"
)

// StatusAdvancer moves confirmed bookings whose slot has passed into
// completed. Implemented by the booking repository.
type StatusAdvancer interface {
	MarkCompletedBookings(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs the background jobs around the booking engine: outbox
// delivery and status advancement. Neither job is part of the engine's
// request path.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher *event.Dispatcher
	advancer   StatusAdvancer
	logger     *zap.Logger
}

func New(dispatcher *event.Dispatcher, advancer StatusAdvancer, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		dispatcher: dispatcher,
		advancer:   advancer,
		logger:     logger.With(zap.String("component", "scheduler")),
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 15s", s.dispatchOutbox)

	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc("@every 5m", s.advanceStatuses)

	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started")

	return nil
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) dispatchOutbox() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	delivered, err := s.dispatcher.DispatchPending(ctx)

	if err != nil {
		s.logger.Warn("outbox dispatch failed", zap.Error(err))
		return
	}

	if delivered > 0 {
		s.logger.Info("outbox events delivered", zap.Int("count", delivered))
	}
}

func (s *Scheduler) advanceStatuses() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	advanced, err := s.advancer.MarkCompletedBookings(ctx, time.Now().UTC())

	if err != nil {
		s.logger.Warn("status advancement failed", zap.Error(err))
		return
	}

	if advanced > 0 {
		s.logger.Info("bookings marked completed", zap.Int64("count", advanced))
	}
}
