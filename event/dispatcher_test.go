package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/slotbook/booking-backend/event"
	ev_mocks "github.com/slotbook/booking-backend/event/mocks"
)

// stubOutbox is a minimal in-memory outbox for dispatcher tests.
type stubOutbox struct {
	pending   []event.Event
	delivered map[string]bool
	listErr   error
	markErr   error
}

func newStubOutbox(pending ...event.Event) *stubOutbox {
	return &stubOutbox{pending: pending, delivered: map[string]bool{}}
}

func (s *stubOutbox) ListUndeliveredEvents(_ context.Context, limit int) ([]event.Event, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}

	var out []event.Event
	for _, evt := range s.pending {
		if !s.delivered[evt.ID] && len(out) < limit {
			out = append(out, evt)
		}
	}
	return out, nil
}

func (s *stubOutbox) MarkEventDelivered(_ context.Context, id string) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.delivered[id] = true
	return nil
}

func pendingEvent(id string) event.Event {
	return event.Event{
		ID:        id,
		Type:      event.TypeBookingCreated,
		BookingID: "booking-" + id,
		TenantID:  "tenant-1",
		Timestamp: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestDispatchPending(t *testing.T) {

	t.Run("delivers and acknowledges every pending event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		outbox := newStubOutbox(pendingEvent("1"), pendingEvent("2"))
		publisher := ev_mocks.NewMockPublisher(ctrl)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		d := event.NewDispatcher(outbox, publisher, zap.NewNop())

		delivered, err := d.DispatchPending(context.Background())

		require.NoError(t, err)
		require.Equal(t, 2, delivered)
		require.True(t, outbox.delivered["1"])
		require.True(t, outbox.delivered["2"])
	})

	t.Run("publish failure leaves the event for the next tick", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		outbox := newStubOutbox(pendingEvent("1"), pendingEvent("2"))
		publisher := ev_mocks.NewMockPublisher(ctrl)

		gomock.InOrder(
			publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down")),
			publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil),
		)

		d := event.NewDispatcher(outbox, publisher, zap.NewNop())

		delivered, err := d.DispatchPending(context.Background())

		require.NoError(t, err)
		require.Equal(t, 1, delivered)
		require.False(t, outbox.delivered["1"])
		require.True(t, outbox.delivered["2"])
	})

	t.Run("ack failure is tolerated and the event is republished later", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		outbox := newStubOutbox(pendingEvent("1"))
		outbox.markErr = errors.New("ack failed")

		publisher := ev_mocks.NewMockPublisher(ctrl)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		d := event.NewDispatcher(outbox, publisher, zap.NewNop())

		delivered, err := d.DispatchPending(context.Background())

		require.NoError(t, err)
		require.Equal(t, 0, delivered)
		require.False(t, outbox.delivered["1"])
	})

	t.Run("list failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		outbox := newStubOutbox()
		outbox.listErr = errors.New("query failed")

		d := event.NewDispatcher(outbox, ev_mocks.NewMockPublisher(ctrl), zap.NewNop())

		_, err := d.DispatchPending(context.Background())

		require.Error(t, err)
	})

	t.Run("empty outbox is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		outbox := newStubOutbox()

		d := event.NewDispatcher(outbox, ev_mocks.NewMockPublisher(ctrl), zap.NewNop())

		delivered, err := d.DispatchPending(context.Background())

		require.NoError(t, err)
		require.Equal(t, 0, delivered)
	})
}
