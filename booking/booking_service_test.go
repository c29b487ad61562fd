package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	bk "github.com/slotbook/booking-backend/booking"
	bk_mocks "github.com/slotbook/booking-backend/booking/mocks"
	ev_mocks "github.com/slotbook/booking-backend/event/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	testTenantID   = "7b8f1a52-3c1d-4f7e-9d2a-8f0b6f0e4c11"
	testServiceID  = "0d9c2f4e-5a6b-4c7d-8e9f-1a2b3c4d5e6f"
	testProviderID = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type testDeps struct {
	store     *bk_mocks.MockEngineStore
	tx        *bk_mocks.MockTx
	publisher *ev_mocks.MockPublisher
	service   *bk.Service
	ctx       context.Context
}

func newTestDeps(t *testing.T) (*gomock.Controller, testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	store := bk_mocks.NewMockEngineStore(ctrl)
	tx := bk_mocks.NewMockTx(ctrl)
	publisher := ev_mocks.NewMockPublisher(ctrl)
	svc := bk.NewService(store, publisher, bk.DefaultPolicyConfig(), zap.NewNop(), bk.WithClock(fixedClock{now: policyNow}))

	return ctrl, testDeps{
		store: store, tx: tx, publisher: publisher, service: svc, ctx: context.Background(),
	}
}

// expectTx wires the store mock so the transactional closure runs
// against the mock Tx.
func expectTx(deps testDeps) {
	deps.store.EXPECT().WithinTx(deps.ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(bk.Tx) error) error {
			return fn(deps.tx)
		}).Times(1)
}

func expectPublish(deps testDeps) {
	deps.publisher.EXPECT().Publish(deps.ctx, gomock.Any()).Return(nil).Times(1)
	deps.store.EXPECT().MarkEventDelivered(deps.ctx, gomock.Any()).Return(nil).Times(1)
}

func validCreateRequest() bk.CreateRequest {
	start, end := interval(10, 1)
	return bk.CreateRequest{
		TenantID:      testTenantID,
		ServiceID:     testServiceID,
		ProviderID:    testProviderID,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane.doe@example.com",
		CustomerPhone: "+41791234567",
		StartTime:     start,
		EndTime:       end,
	}
}

func engineErr(t *testing.T, err error) *bk.Error {
	t.Helper()
	var typed *bk.Error
	require.ErrorAs(t, err, &typed)
	return typed
}

func strPtr(s string) *string       { return &s }
func timePtr(v time.Time) *time.Time { return &v }

func TestCreateBooking(t *testing.T) {

	t.Run("success", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		req := validCreateRequest()

		expectTx(deps)
		deps.tx.EXPECT().LockProviderCalendar(deps.ctx, testTenantID, testProviderID).Return(nil).Times(1)
		deps.tx.EXPECT().ListActiveForProvider(deps.ctx, testTenantID, testProviderID, gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
		deps.tx.EXPECT().CountActiveForCustomer(deps.ctx, testTenantID, "jane.doe@example.com").Return(0, nil).Times(1)
		deps.tx.EXPECT().InsertBooking(deps.ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, b bk.Booking) (bk.Booking, error) {
				b.ID = "booking-1"
				return b, nil
			}).Times(1)
		deps.tx.EXPECT().InsertOutboxEvent(deps.ctx, gomock.Any()).Return(nil).Times(1)
		expectPublish(deps)

		created, err := deps.service.CreateBooking(deps.ctx, req)

		require.Nil(t, err)
		require.Equal(t, "booking-1", created.ID)
		require.Equal(t, bk.StatusConfirmed, created.Status)
		require.Equal(t, req.StartTime, created.StartTime)
		require.Equal(t, int64(1), deps.service.Metrics().BookingsCreated)
	})

	t.Run("pending initial status when confirmation required", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := bk_mocks.NewMockEngineStore(ctrl)
		tx := bk_mocks.NewMockTx(ctrl)
		publisher := ev_mocks.NewMockPublisher(ctrl)
		policy := bk.DefaultPolicyConfig()
		policy.ConfirmOnCreate = false
		svc := bk.NewService(store, publisher, policy, zap.NewNop(), bk.WithClock(fixedClock{now: policyNow}))
		ctx := context.Background()

		store.EXPECT().WithinTx(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, fn func(bk.Tx) error) error { return fn(tx) }).Times(1)
		tx.EXPECT().LockProviderCalendar(ctx, testTenantID, testProviderID).Return(nil).Times(1)
		tx.EXPECT().ListActiveForProvider(ctx, testTenantID, testProviderID, gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
		tx.EXPECT().CountActiveForCustomer(ctx, testTenantID, "jane.doe@example.com").Return(0, nil).Times(1)
		tx.EXPECT().InsertBooking(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, b bk.Booking) (bk.Booking, error) {
				b.ID = "booking-1"
				return b, nil
			}).Times(1)
		tx.EXPECT().InsertOutboxEvent(ctx, gomock.Any()).Return(nil).Times(1)
		publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)
		store.EXPECT().MarkEventDelivered(ctx, gomock.Any()).Return(nil).Times(1)

		created, err := svc.CreateBooking(ctx, validCreateRequest())

		require.Nil(t, err)
		require.Equal(t, bk.StatusPending, created.Status)
	})

	t.Run("conflict detected", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		req := validCreateRequest()
		taken := existingBooking("other", 10, 2, bk.StatusConfirmed)

		expectTx(deps)
		deps.tx.EXPECT().LockProviderCalendar(deps.ctx, testTenantID, testProviderID).Return(nil).Times(1)
		deps.tx.EXPECT().ListActiveForProvider(deps.ctx, testTenantID, testProviderID, gomock.Any(), gomock.Any()).Return([]bk.Booking{taken}, nil).Times(1)

		_, err := deps.service.CreateBooking(deps.ctx, req)

		typed := engineErr(t, err)
		require.Equal(t, bk.KindCreation, typed.Kind)
		require.NotNil(t, typed.Conflict)
		require.Equal(t, "other", typed.Conflict.BookingID)
		require.Equal(t, 409, typed.HTTPStatus())
		require.Equal(t, int64(1), deps.service.Metrics().ConflictsDetected)
		require.Equal(t, int64(0), deps.service.Metrics().BookingsCreated)
	})

	t.Run("validation reports every violated field", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		req := bk.CreateRequest{
			TenantID:      "not-a-uuid",
			ServiceID:     "nope",
			ProviderID:    testProviderID,
			CustomerName:  "",
			CustomerEmail: "not-an-email",
			CustomerPhone: "123",
		}

		_, err := deps.service.CreateBooking(deps.ctx, req)

		typed := engineErr(t, err)
		require.Equal(t, bk.KindValidation, typed.Kind)
		require.Equal(t, 400, typed.HTTPStatus())

		violated := map[string]bool{}
		for _, f := range typed.Fields {
			violated[f.Field] = true
		}
		require.True(t, violated["tenantId"])
		require.True(t, violated["serviceId"])
		require.True(t, violated["customerName"])
		require.True(t, violated["customerEmail"])
		require.True(t, violated["customerPhone"])
		require.True(t, violated["startTime"])
		require.True(t, violated["endTime"])
		require.Equal(t, int64(1), deps.service.Metrics().ValidationFailures)
	})

	t.Run("start too soon", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		req := validCreateRequest()
		req.StartTime = policyNow.Add(10 * time.Minute)
		req.EndTime = req.StartTime.Add(time.Hour)

		_, err := deps.service.CreateBooking(deps.ctx, req)

		typed := engineErr(t, err)
		require.Equal(t, bk.KindValidation, typed.Kind)
		require.Contains(t, typed.Fields[0].Message, "too_soon")
	})

	t.Run("customer concurrency cap", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		req := validCreateRequest()

		expectTx(deps)
		deps.tx.EXPECT().LockProviderCalendar(deps.ctx, testTenantID, testProviderID).Return(nil).Times(1)
		deps.tx.EXPECT().ListActiveForProvider(deps.ctx, testTenantID, testProviderID, gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
		deps.tx.EXPECT().CountActiveForCustomer(deps.ctx, testTenantID, "jane.doe@example.com").Return(5, nil).Times(1)

		_, err := deps.service.CreateBooking(deps.ctx, req)

		typed := engineErr(t, err)
		require.Equal(t, bk.KindCreation, typed.Kind)
		require.Nil(t, typed.Conflict)
		require.Equal(t, 422, typed.HTTPStatus())
	})

	t.Run("insert failure wraps cause", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		repoErr := errors.New("repo error")

		expectTx(deps)
		deps.tx.EXPECT().LockProviderCalendar(deps.ctx, testTenantID, testProviderID).Return(nil).Times(1)
		deps.tx.EXPECT().ListActiveForProvider(deps.ctx, testTenantID, testProviderID, gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
		deps.tx.EXPECT().CountActiveForCustomer(deps.ctx, testTenantID, "jane.doe@example.com").Return(0, nil).Times(1)
		deps.tx.EXPECT().InsertBooking(deps.ctx, gomock.Any()).Return(bk.Booking{}, repoErr).Times(1)

		_, err := deps.service.CreateBooking(deps.ctx, validCreateRequest())

		typed := engineErr(t, err)
		require.Equal(t, bk.KindCreation, typed.Kind)
		require.ErrorIs(t, err, repoErr)
	})

	t.Run("commit failure wraps cause", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		commitErr := errors.New("failed to commit transaction")
		deps.store.EXPECT().WithinTx(deps.ctx, gomock.Any()).Return(commitErr).Times(1)

		_, err := deps.service.CreateBooking(deps.ctx, validCreateRequest())

		typed := engineErr(t, err)
		require.Equal(t, bk.KindCreation, typed.Kind)
		require.ErrorIs(t, err, commitErr)
	})

	t.Run("publish failure does not fail the operation", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		expectTx(deps)
		deps.tx.EXPECT().LockProviderCalendar(deps.ctx, testTenantID, testProviderID).Return(nil).Times(1)
		deps.tx.EXPECT().ListActiveForProvider(deps.ctx, testTenantID, testProviderID, gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
		deps.tx.EXPECT().CountActiveForCustomer(deps.ctx, testTenantID, "jane.doe@example.com").Return(0, nil).Times(1)
		deps.tx.EXPECT().InsertBooking(deps.ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, b bk.Booking) (bk.Booking, error) {
				b.ID = "booking-1"
				return b, nil
			}).Times(1)
		deps.tx.EXPECT().InsertOutboxEvent(deps.ctx, gomock.Any()).Return(nil).Times(1)
		deps.publisher.EXPECT().Publish(deps.ctx, gomock.Any()).Return(errors.New("broker down")).Times(1)

		created, err := deps.service.CreateBooking(deps.ctx, validCreateRequest())

		require.Nil(t, err)
		require.Equal(t, "booking-1", created.ID)
		require.Equal(t, int64(1), deps.service.Metrics().PublishFailures)
		require.Equal(t, int64(1), deps.service.Metrics().BookingsCreated)
	})
}

func TestModifyBooking(t *testing.T) {
	current := func() bk.Booking {
		start, end := interval(10, 1)
		return bk.Booking{
			ID:         "booking-1",
			TenantID:   testTenantID,
			ServiceID:  testServiceID,
			ProviderID: testProviderID,
			StartTime:  start,
			EndTime:    end,
			Status:     bk.StatusConfirmed,
		}
	}

	t.Run("reschedule success", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		newStart := time.Date(2025, time.March, 12, 14, 0, 0, 0, time.UTC)
		newEnd := newStart.Add(time.Hour)
		changes := bk.Changes{StartTime: timePtr(newStart), EndTime: timePtr(newEnd)}

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(current(), nil).Times(1)
		deps.tx.EXPECT().LockProviderCalendar(deps.ctx, testTenantID, testProviderID).Return(nil).Times(1)
		deps.tx.EXPECT().ListActiveForProvider(deps.ctx, testTenantID, testProviderID, gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
		deps.tx.EXPECT().UpdateBooking(deps.ctx, gomock.Any()).Return(nil).Times(1)
		deps.tx.EXPECT().InsertOutboxEvent(deps.ctx, gomock.Any()).Return(nil).Times(1)
		expectPublish(deps)

		updated, err := deps.service.ModifyBooking(deps.ctx, testTenantID, "booking-1", changes, "customer asked to move")

		require.Nil(t, err)
		require.Equal(t, newStart, updated.StartTime)
		require.Equal(t, newEnd, updated.EndTime)
		require.Equal(t, 1, updated.RescheduleCount)
		require.Len(t, updated.History, 1)
		require.Equal(t, "customer asked to move", updated.History[0].Reason)
		require.Equal(t, int64(1), deps.service.Metrics().BookingsModified)
		require.Equal(t, int64(1), deps.service.Metrics().ConflictsResolved)
	})

	t.Run("notes change skips conflict detection", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		changes := bk.Changes{Notes: strPtr("please prepare the corner room")}

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(current(), nil).Times(1)
		deps.tx.EXPECT().UpdateBooking(deps.ctx, gomock.Any()).Return(nil).Times(1)
		deps.tx.EXPECT().InsertOutboxEvent(deps.ctx, gomock.Any()).Return(nil).Times(1)
		expectPublish(deps)

		updated, err := deps.service.ModifyBooking(deps.ctx, testTenantID, "booking-1", changes, "note update")

		require.Nil(t, err)
		require.Equal(t, 0, updated.RescheduleCount)
		require.Equal(t, "please prepare the corner room", updated.Notes)
		require.Equal(t, int64(0), deps.service.Metrics().ConflictsResolved)
	})

	t.Run("reschedule cap reached", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		booking := current()
		booking.RescheduleCount = 3

		newStart := time.Date(2025, time.March, 12, 14, 0, 0, 0, time.UTC)
		changes := bk.Changes{StartTime: timePtr(newStart), EndTime: timePtr(newStart.Add(time.Hour))}

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(booking, nil).Times(1)

		_, err := deps.service.ModifyBooking(deps.ctx, testTenantID, "booking-1", changes, "one more time")

		typed := engineErr(t, err)
		require.Equal(t, bk.KindModification, typed.Kind)
		require.Equal(t, 422, typed.HTTPStatus())
	})

	t.Run("terminal booking cannot be modified", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		booking := current()
		booking.Status = bk.StatusCancelled

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(booking, nil).Times(1)

		_, err := deps.service.ModifyBooking(deps.ctx, testTenantID, "booking-1", bk.Changes{Notes: strPtr("x")}, "late edit")

		typed := engineErr(t, err)
		require.Equal(t, bk.KindModification, typed.Kind)
	})

	t.Run("new interval conflicts", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		newStart := time.Date(2025, time.March, 12, 14, 0, 0, 0, time.UTC)
		changes := bk.Changes{StartTime: timePtr(newStart), EndTime: timePtr(newStart.Add(time.Hour))}
		taken := bk.Booking{ID: "other", StartTime: newStart, EndTime: newStart.Add(time.Hour), Status: bk.StatusConfirmed}

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(current(), nil).Times(1)
		deps.tx.EXPECT().LockProviderCalendar(deps.ctx, testTenantID, testProviderID).Return(nil).Times(1)
		deps.tx.EXPECT().ListActiveForProvider(deps.ctx, testTenantID, testProviderID, gomock.Any(), gomock.Any()).Return([]bk.Booking{taken}, nil).Times(1)

		_, err := deps.service.ModifyBooking(deps.ctx, testTenantID, "booking-1", changes, "move please")

		typed := engineErr(t, err)
		require.Equal(t, bk.KindModification, typed.Kind)
		require.NotNil(t, typed.Conflict)
		require.Equal(t, "other", typed.Conflict.BookingID)
		require.Equal(t, 409, typed.HTTPStatus())
		require.Equal(t, int64(1), deps.service.Metrics().ConflictsDetected)
	})

	t.Run("own row excluded from conflict set", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		// Shrinking the same slot must not collide with itself.
		booking := current()
		newEnd := booking.StartTime.Add(30 * time.Minute)
		changes := bk.Changes{EndTime: timePtr(newEnd)}

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(booking, nil).Times(1)
		deps.tx.EXPECT().LockProviderCalendar(deps.ctx, testTenantID, testProviderID).Return(nil).Times(1)
		deps.tx.EXPECT().ListActiveForProvider(deps.ctx, testTenantID, testProviderID, gomock.Any(), gomock.Any()).Return([]bk.Booking{booking}, nil).Times(1)
		deps.tx.EXPECT().UpdateBooking(deps.ctx, gomock.Any()).Return(nil).Times(1)
		deps.tx.EXPECT().InsertOutboxEvent(deps.ctx, gomock.Any()).Return(nil).Times(1)
		expectPublish(deps)

		updated, err := deps.service.ModifyBooking(deps.ctx, testTenantID, "booking-1", changes, "shorter slot")

		require.Nil(t, err)
		require.Equal(t, newEnd, updated.EndTime)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "missing").Return(bk.Booking{}, bk.ErrBookingNotFound).Times(1)

		_, err := deps.service.ModifyBooking(deps.ctx, testTenantID, "missing", bk.Changes{Notes: strPtr("x")}, "whatever")

		typed := engineErr(t, err)
		require.Equal(t, bk.KindNotFound, typed.Kind)
		require.ErrorIs(t, err, bk.ErrBookingNotFound)
		require.Equal(t, 404, typed.HTTPStatus())
	})

	t.Run("missing reason", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		_, err := deps.service.ModifyBooking(deps.ctx, testTenantID, "booking-1", bk.Changes{Notes: strPtr("x")}, "")

		typed := engineErr(t, err)
		require.Equal(t, bk.KindValidation, typed.Kind)
	})

	t.Run("empty change set", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		_, err := deps.service.ModifyBooking(deps.ctx, testTenantID, "booking-1", bk.Changes{}, "no changes")

		typed := engineErr(t, err)
		require.Equal(t, bk.KindValidation, typed.Kind)
	})
}

func TestCancelBooking(t *testing.T) {
	current := func(start time.Time) bk.Booking {
		return bk.Booking{
			ID:         "booking-1",
			TenantID:   testTenantID,
			ServiceID:  testServiceID,
			ProviderID: testProviderID,
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			Status:     bk.StatusConfirmed,
		}
	}

	t.Run("refund requested inside window is accepted but not eligible", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		// Booking starts in 12 hours, inside the 24h cancellation window.
		booking := current(policyNow.Add(12 * time.Hour))

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(booking, nil).Times(1)
		deps.tx.EXPECT().UpdateBooking(deps.ctx, gomock.Any()).Return(nil).Times(1)
		deps.tx.EXPECT().InsertOutboxEvent(deps.ctx, gomock.Any()).Return(nil).Times(1)
		expectPublish(deps)

		cancelled, err := deps.service.CancelBooking(deps.ctx, testTenantID, "booking-1", bk.CancelRequest{
			Reason:          bk.CancelReasonCustomerRequest,
			RefundRequested: true,
		})

		require.Nil(t, err)
		require.Equal(t, bk.StatusCancelled, cancelled.Status)
		require.True(t, cancelled.RefundRequested)
		require.False(t, cancelled.RefundEligible)
		require.Equal(t, bk.CancelReasonCustomerRequest, cancelled.CancellationReason)
		require.Equal(t, int64(1), deps.service.Metrics().BookingsCancelled)
	})

	t.Run("refund eligible outside window", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		booking := current(policyNow.Add(48 * time.Hour))

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(booking, nil).Times(1)
		deps.tx.EXPECT().UpdateBooking(deps.ctx, gomock.Any()).Return(nil).Times(1)
		deps.tx.EXPECT().InsertOutboxEvent(deps.ctx, gomock.Any()).Return(nil).Times(1)
		expectPublish(deps)

		cancelled, err := deps.service.CancelBooking(deps.ctx, testTenantID, "booking-1", bk.CancelRequest{
			Reason:          bk.CancelReasonEmergency,
			Notes:           "family emergency",
			RefundRequested: true,
		})

		require.Nil(t, err)
		require.True(t, cancelled.RefundEligible)
		require.Equal(t, "family emergency", cancelled.CancellationNotes)
	})

	t.Run("already cancelled", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		booking := current(policyNow.Add(48 * time.Hour))
		booking.Status = bk.StatusCancelled

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(booking, nil).Times(1)

		_, err := deps.service.CancelBooking(deps.ctx, testTenantID, "booking-1", bk.CancelRequest{
			Reason: bk.CancelReasonCustomerRequest,
		})

		typed := engineErr(t, err)
		require.Equal(t, bk.KindCancellation, typed.Kind)
		require.Equal(t, 422, typed.HTTPStatus())
		require.Equal(t, int64(0), deps.service.Metrics().BookingsCancelled)
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		booking := current(policyNow.Add(-48 * time.Hour))
		booking.Status = bk.StatusCompleted

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(booking, nil).Times(1)

		_, err := deps.service.CancelBooking(deps.ctx, testTenantID, "booking-1", bk.CancelRequest{
			Reason: bk.CancelReasonOther,
		})

		typed := engineErr(t, err)
		require.Equal(t, bk.KindCancellation, typed.Kind)
	})

	t.Run("invalid reason", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		_, err := deps.service.CancelBooking(deps.ctx, testTenantID, "booking-1", bk.CancelRequest{
			Reason: "changed_my_mind",
		})

		typed := engineErr(t, err)
		require.Equal(t, bk.KindValidation, typed.Kind)
		require.Equal(t, int64(1), deps.service.Metrics().ValidationFailures)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		expectTx(deps)
		deps.tx.EXPECT().GetBooking(deps.ctx, testTenantID, "missing").Return(bk.Booking{}, bk.ErrBookingNotFound).Times(1)

		_, err := deps.service.CancelBooking(deps.ctx, testTenantID, "missing", bk.CancelRequest{
			Reason: bk.CancelReasonCustomerRequest,
		})

		typed := engineErr(t, err)
		require.Equal(t, bk.KindNotFound, typed.Kind)
	})
}

func TestFindBookingByID(t *testing.T) {

	t.Run("success", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		booking := bk.Booking{ID: "booking-1", TenantID: testTenantID}
		deps.store.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(booking, nil).Times(1)

		got, err := deps.service.FindBookingByID(deps.ctx, testTenantID, "booking-1")

		require.Nil(t, err)
		require.Equal(t, booking, got)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		deps.store.EXPECT().GetBooking(deps.ctx, testTenantID, "missing").Return(bk.Booking{}, bk.ErrBookingNotFound).Times(1)

		_, err := deps.service.FindBookingByID(deps.ctx, testTenantID, "missing")

		typed := engineErr(t, err)
		require.Equal(t, bk.KindNotFound, typed.Kind)
		require.ErrorIs(t, err, bk.ErrBookingNotFound)
	})

	t.Run("repo error", func(t *testing.T) {
		ctrl, deps := newTestDeps(t)
		defer ctrl.Finish()

		deps.store.EXPECT().GetBooking(deps.ctx, testTenantID, "booking-1").Return(bk.Booking{}, errors.New("repo error")).Times(1)

		_, err := deps.service.FindBookingByID(deps.ctx, testTenantID, "booking-1")

		typed := engineErr(t, err)
		require.Equal(t, bk.KindInternal, typed.Kind)
		require.Equal(t, 500, typed.HTTPStatus())
	})
}

func TestLifecycle(t *testing.T) {
	ctrl, deps := newTestDeps(t)
	defer ctrl.Finish()

	// Shutdown before Initialize must not fail, and both are idempotent.
	require.Nil(t, deps.service.Shutdown())
	require.Nil(t, deps.service.Initialize())
	require.Nil(t, deps.service.Initialize())
	require.Nil(t, deps.service.Shutdown())
	require.Nil(t, deps.service.Shutdown())
}

func TestMetricsSnapshotIsACopy(t *testing.T) {
	ctrl, deps := newTestDeps(t)
	defer ctrl.Finish()

	first := deps.service.Metrics()
	first.BookingsCreated = 99

	require.Equal(t, int64(0), deps.service.Metrics().BookingsCreated)
}
