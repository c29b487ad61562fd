package booking

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotbook/booking-backend/event"
)

// Clock abstracts time so temporal boundaries are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// conflictWindowPadding widens the queried calendar window around the
// candidate interval so any booking that could overlap is fetched.
const conflictWindowPadding = 24 * time.Hour

// Service is the booking engine. It turns booking requests into
// durable, conflict-free reservations and enforces the temporal rules
// that keep a provider's calendar consistent under concurrent requests.
//
// All conflict safety comes from the store's transaction discipline;
// the engine holds no in-process locks and is safe to run as multiple
// stateless instances.
type Service struct {
	store       EngineStore
	publisher   event.Publisher
	policy      PolicyConfig
	clock       Clock
	logger      *zap.Logger
	metrics     Metrics
	initialized atomic.Bool
}

type Option func(*Service)

// WithClock replaces the engine's time source.
func WithClock(clock Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func NewService(store EngineStore, publisher event.Publisher, policy PolicyConfig, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: publisher,
		policy:    policy,
		clock:     systemClock{},
		logger:    logger.With(zap.String("component", "booking-engine")),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize marks the engine ready. Idempotent.
func (s *Service) Initialize() error {
	if s.initialized.CompareAndSwap(false, true) {
		s.logger.Info("booking engine initialized",
			zap.Duration("minAdvance", s.policy.MinAdvance),
			zap.Duration("maxHorizon", s.policy.MaxHorizon),
			zap.Bool("confirmOnCreate", s.policy.ConfirmOnCreate),
		)
	}
	return nil
}

// Shutdown marks the engine stopped. Idempotent; safe to call before
// Initialize.
func (s *Service) Shutdown() error {
	if s.initialized.CompareAndSwap(true, false) {
		s.logger.Info("booking engine shut down")
	}
	return nil
}

// Metrics returns a snapshot copy of the engine's counters.
func (s *Service) Metrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}

type CreateRequest struct {
	TenantID        string         `json:"tenantId"`
	ServiceID       string         `json:"serviceId"`
	ProviderID      string         `json:"providerId"`
	CustomerName    string         `json:"customerName"`
	CustomerEmail   string         `json:"customerEmail"`
	CustomerPhone   string         `json:"customerPhone"`
	StartTime       time.Time      `json:"startTime"`
	EndTime         time.Time      `json:"endTime"`
	Notes           string         `json:"notes"`
	Metadata        map[string]any `json:"metadata"`
	SpecialRequests string         `json:"specialRequests"`
}

func (r CreateRequest) validate() []FieldViolation {
	var fields []FieldViolation

	if _, err := uuid.Parse(r.TenantID); err != nil {
		fields = append(fields, FieldViolation{Field: "tenantId", Message: "must be a valid UUID"})
	}
	if _, err := uuid.Parse(r.ServiceID); err != nil {
		fields = append(fields, FieldViolation{Field: "serviceId", Message: "must be a valid UUID"})
	}
	if _, err := uuid.Parse(r.ProviderID); err != nil {
		fields = append(fields, FieldViolation{Field: "providerId", Message: "must be a valid UUID"})
	}
	if l := len(r.CustomerName); l < 1 || l > 255 {
		fields = append(fields, FieldViolation{Field: "customerName", Message: "must be between 1 and 255 characters"})
	}
	if _, err := mail.ParseAddress(r.CustomerEmail); err != nil {
		fields = append(fields, FieldViolation{Field: "customerEmail", Message: "must be a valid email address"})
	}
	if l := len(r.CustomerPhone); l < 10 || l > 20 {
		fields = append(fields, FieldViolation{Field: "customerPhone", Message: "must be between 10 and 20 characters"})
	}
	if r.StartTime.IsZero() {
		fields = append(fields, FieldViolation{Field: "startTime", Message: "is required"})
	}
	if r.EndTime.IsZero() {
		fields = append(fields, FieldViolation{Field: "endTime", Message: "is required"})
	}
	if len(r.Notes) > 1000 {
		fields = append(fields, FieldViolation{Field: "notes", Message: "must be at most 1000 characters"})
	}
	if len(r.SpecialRequests) > 500 {
		fields = append(fields, FieldViolation{Field: "specialRequests", Message: "must be at most 500 characters"})
	}

	return fields
}

// CreateBooking validates the request, detects conflicts inside the
// store's serialization scope, persists the booking together with its
// outbox event, then publishes best-effort.
func (s *Service) CreateBooking(ctx context.Context, req CreateRequest) (Booking, error) {
	const op = "create"

	if fields := req.validate(); len(fields) > 0 {
		s.metrics.validationFailures.Add(1)
		return Booking{}, newValidationError(op, fields)
	}

	now := s.clock.Now()

	if v := s.policy.CheckInterval(now, req.StartTime, req.EndTime); v != nil {
		s.metrics.validationFailures.Add(1)
		return Booking{}, newValidationError(op, []FieldViolation{
			{Field: "startTime", Message: fmt.Sprintf("%s: %s", v.Kind, v.Message)},
		})
	}

	var created Booking
	var evt event.Event

	err := s.store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.LockProviderCalendar(ctx, req.TenantID, req.ProviderID); err != nil {
			return newInternalError(op, err)
		}

		existing, err := tx.ListActiveForProvider(ctx, req.TenantID, req.ProviderID,
			req.StartTime.Add(-conflictWindowPadding), req.EndTime.Add(conflictWindowPadding))

		if err != nil {
			return newInternalError(op, err)
		}

		if conflicting, found := FindConflict(req.StartTime, req.EndTime, existing, ""); found {
			s.metrics.conflictsDetected.Add(1)
			return newConflictError(KindCreation, op, *conflicting)
		}

		count, err := tx.CountActiveForCustomer(ctx, req.TenantID, req.CustomerEmail)

		if err != nil {
			return newInternalError(op, err)
		}

		if count >= s.policy.MaxConcurrentPerCustomer {
			return newOpError(KindCreation, op, "customer has reached the active bookings limit", nil)
		}

		created, err = tx.InsertBooking(ctx, Booking{
			TenantID:        req.TenantID,
			ServiceID:       req.ServiceID,
			ProviderID:      req.ProviderID,
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			Status:          s.policy.InitialStatus(),
			Notes:           req.Notes,
			Metadata:        req.Metadata,
			SpecialRequests: req.SpecialRequests,
			CreatedAt:       now,
			UpdatedAt:       now,
		})

		if err != nil {
			return newOpError(KindCreation, op, "failed to persist booking", err)
		}

		evt = s.newEvent(event.TypeBookingCreated, created)
		if err := tx.InsertOutboxEvent(ctx, evt); err != nil {
			return newOpError(KindCreation, op, "failed to record booking event", err)
		}

		return nil
	})

	if err != nil {
		return Booking{}, asEngineError(err, KindCreation, op)
	}

	s.publishAfterCommit(ctx, evt)
	s.metrics.bookingsCreated.Add(1)

	s.logger.Info("booking created",
		zap.String("bookingId", created.ID),
		zap.String("tenantId", created.TenantID),
		zap.String("providerId", created.ProviderID),
		zap.Time("startTime", created.StartTime),
	)

	return created, nil
}

// Changes is the subset of booking fields a modify request may alter.
// Nil pointers leave the current value untouched.
type Changes struct {
	StartTime       *time.Time `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	ServiceID       *string    `json:"serviceId"`
	ProviderID      *string    `json:"providerId"`
	Notes           *string    `json:"notes"`
	SpecialRequests *string    `json:"specialRequests"`
}

func (c Changes) empty() bool {
	return c.StartTime == nil && c.EndTime == nil && c.ServiceID == nil &&
		c.ProviderID == nil && c.Notes == nil && c.SpecialRequests == nil
}

func (c Changes) validate(reason string) []FieldViolation {
	var fields []FieldViolation

	if l := len(reason); l < 1 || l > 255 {
		fields = append(fields, FieldViolation{Field: "reason", Message: "must be between 1 and 255 characters"})
	}
	if c.empty() {
		fields = append(fields, FieldViolation{Field: "changes", Message: "at least one field must be changed"})
	}
	if c.ServiceID != nil {
		if _, err := uuid.Parse(*c.ServiceID); err != nil {
			fields = append(fields, FieldViolation{Field: "serviceId", Message: "must be a valid UUID"})
		}
	}
	if c.ProviderID != nil {
		if _, err := uuid.Parse(*c.ProviderID); err != nil {
			fields = append(fields, FieldViolation{Field: "providerId", Message: "must be a valid UUID"})
		}
	}
	if c.Notes != nil && len(*c.Notes) > 1000 {
		fields = append(fields, FieldViolation{Field: "notes", Message: "must be at most 1000 characters"})
	}
	if c.SpecialRequests != nil && len(*c.SpecialRequests) > 500 {
		fields = append(fields, FieldViolation{Field: "specialRequests", Message: "must be at most 500 characters"})
	}

	return fields
}

// ModifyBooking applies a partial update. Interval or provider changes
// re-run the time policy and conflict detection against the new slot,
// excluding the booking's own row, under the same transactional
// discipline as create.
func (s *Service) ModifyBooking(ctx context.Context, tenantID, id string, changes Changes, reason string) (Booking, error) {
	const op = "modify"

	if fields := changes.validate(reason); len(fields) > 0 {
		s.metrics.validationFailures.Add(1)
		return Booking{}, newValidationError(op, fields)
	}

	now := s.clock.Now()

	var updated Booking
	var evt event.Event
	intervalChanged := false

	err := s.store.WithinTx(ctx, func(tx Tx) error {
		booking, err := tx.GetBooking(ctx, tenantID, id)

		if errors.Is(err, ErrBookingNotFound) {
			return newNotFoundError(op, id)
		}

		if err != nil {
			return newInternalError(op, err)
		}

		if booking.Status.IsTerminal() {
			return newOpError(KindModification, op, "cannot modify a finished or cancelled booking", nil)
		}

		newStart, newEnd := booking.StartTime, booking.EndTime
		if changes.StartTime != nil {
			newStart = *changes.StartTime
		}
		if changes.EndTime != nil {
			newEnd = *changes.EndTime
		}

		newProvider := booking.ProviderID
		if changes.ProviderID != nil {
			newProvider = *changes.ProviderID
		}

		intervalChanged = !newStart.Equal(booking.StartTime) || !newEnd.Equal(booking.EndTime)
		providerChanged := newProvider != booking.ProviderID

		if intervalChanged && booking.RescheduleCount >= s.policy.MaxReschedules {
			return newOpError(KindModification, op,
				fmt.Sprintf("booking has reached the limit of %d reschedules", s.policy.MaxReschedules), nil)
		}

		if intervalChanged || providerChanged {
			if v := s.policy.CheckInterval(now, newStart, newEnd); v != nil {
				return newOpError(KindModification, op, fmt.Sprintf("%s: %s", v.Kind, v.Message), nil)
			}

			if err := tx.LockProviderCalendar(ctx, tenantID, newProvider); err != nil {
				return newInternalError(op, err)
			}

			existing, err := tx.ListActiveForProvider(ctx, tenantID, newProvider,
				newStart.Add(-conflictWindowPadding), newEnd.Add(conflictWindowPadding))

			if err != nil {
				return newInternalError(op, err)
			}

			if conflicting, found := FindConflict(newStart, newEnd, existing, booking.ID); found {
				s.metrics.conflictsDetected.Add(1)
				return newConflictError(KindModification, op, *conflicting)
			}
		}

		applied := map[string]any{}

		booking.StartTime, booking.EndTime = newStart, newEnd
		if intervalChanged {
			booking.RescheduleCount++
			applied["startTime"] = newStart
			applied["endTime"] = newEnd
		}
		if providerChanged {
			booking.ProviderID = newProvider
			applied["providerId"] = newProvider
		}
		if changes.ServiceID != nil && *changes.ServiceID != booking.ServiceID {
			booking.ServiceID = *changes.ServiceID
			applied["serviceId"] = *changes.ServiceID
		}
		if changes.Notes != nil && *changes.Notes != booking.Notes {
			booking.Notes = *changes.Notes
			applied["notes"] = *changes.Notes
		}
		if changes.SpecialRequests != nil && *changes.SpecialRequests != booking.SpecialRequests {
			booking.SpecialRequests = *changes.SpecialRequests
			applied["specialRequests"] = *changes.SpecialRequests
		}

		booking.History = append(booking.History, ModificationRecord{
			ModifiedAt: now,
			Reason:     reason,
			Changes:    applied,
		})
		booking.UpdatedAt = now

		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return newOpError(KindModification, op, "failed to persist booking changes", err)
		}

		evt = s.newEvent(event.TypeBookingModified, booking)
		if err := tx.InsertOutboxEvent(ctx, evt); err != nil {
			return newOpError(KindModification, op, "failed to record booking event", err)
		}

		updated = booking
		return nil
	})

	if err != nil {
		return Booking{}, asEngineError(err, KindModification, op)
	}

	s.publishAfterCommit(ctx, evt)
	s.metrics.bookingsModified.Add(1)
	if intervalChanged {
		s.metrics.conflictsResolved.Add(1)
	}

	s.logger.Info("booking modified",
		zap.String("bookingId", updated.ID),
		zap.String("tenantId", updated.TenantID),
		zap.Int("rescheduleCount", updated.RescheduleCount),
	)

	return updated, nil
}

type CancelRequest struct {
	Reason          CancelReason `json:"reason"`
	Notes           string       `json:"notes"`
	RefundRequested bool         `json:"refundRequested"`
}

func (r CancelRequest) validate() []FieldViolation {
	var fields []FieldViolation

	if !r.Reason.Valid() {
		fields = append(fields, FieldViolation{Field: "reason", Message: "must be one of customer_request, provider_unavailable, emergency, other"})
	}
	if len(r.Notes) > 500 {
		fields = append(fields, FieldViolation{Field: "notes", Message: "must be at most 500 characters"})
	}

	return fields
}

// CancelBooking marks the booking cancelled; the row is never deleted.
// Cancelling an already finished or cancelled booking is an error, not
// a no-op, so duplicate-cancel bugs surface in callers. When a refund
// is requested outside the cancellation window the cancellation still
// succeeds but RefundEligible stays false.
func (s *Service) CancelBooking(ctx context.Context, tenantID, id string, req CancelRequest) (Booking, error) {
	const op = "cancel"

	if fields := req.validate(); len(fields) > 0 {
		s.metrics.validationFailures.Add(1)
		return Booking{}, newValidationError(op, fields)
	}

	now := s.clock.Now()

	var cancelled Booking
	var evt event.Event

	err := s.store.WithinTx(ctx, func(tx Tx) error {
		booking, err := tx.GetBooking(ctx, tenantID, id)

		if errors.Is(err, ErrBookingNotFound) {
			return newNotFoundError(op, id)
		}

		if err != nil {
			return newInternalError(op, err)
		}

		if !CanTransition(booking.Status, StatusCancelled) {
			return newOpError(KindCancellation, op, "booking is already finished or cancelled", nil)
		}

		booking.Status = StatusCancelled
		booking.CancellationReason = req.Reason
		booking.CancellationNotes = req.Notes
		booking.RefundRequested = req.RefundRequested
		booking.RefundEligible = req.RefundRequested && s.policy.RefundEligible(now, booking.StartTime)
		booking.History = append(booking.History, ModificationRecord{
			ModifiedAt: now,
			Reason:     string(req.Reason),
			Changes:    map[string]any{"status": StatusCancelled},
		})
		booking.UpdatedAt = now

		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return newOpError(KindCancellation, op, "failed to persist cancellation", err)
		}

		evt = s.newEvent(event.TypeBookingCancelled, booking)
		if err := tx.InsertOutboxEvent(ctx, evt); err != nil {
			return newOpError(KindCancellation, op, "failed to record booking event", err)
		}

		cancelled = booking
		return nil
	})

	if err != nil {
		return Booking{}, asEngineError(err, KindCancellation, op)
	}

	s.publishAfterCommit(ctx, evt)
	s.metrics.bookingsCancelled.Add(1)

	s.logger.Info("booking cancelled",
		zap.String("bookingId", cancelled.ID),
		zap.String("tenantId", cancelled.TenantID),
		zap.String("reason", string(cancelled.CancellationReason)),
		zap.Bool("refundEligible", cancelled.RefundEligible),
	)

	return cancelled, nil
}

func (s *Service) FindBookingByID(ctx context.Context, tenantID, id string) (Booking, error) {
	const op = "get"

	booking, err := s.store.GetBooking(ctx, tenantID, id)

	if errors.Is(err, ErrBookingNotFound) {
		return Booking{}, newNotFoundError(op, id)
	}

	if err != nil {
		return Booking{}, newInternalError(op, err)
	}

	return booking, nil
}

func (s *Service) ListActiveForProvider(ctx context.Context, tenantID, providerID string, from, to time.Time) ([]Booking, error) {
	const op = "list"

	bookings, err := s.store.ListActiveForProvider(ctx, tenantID, providerID, from, to)

	if err != nil {
		return nil, newInternalError(op, err)
	}

	return bookings, nil
}

func (s *Service) newEvent(eventType event.Type, booking Booking) event.Event {
	return event.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		BookingID: booking.ID,
		TenantID:  booking.TenantID,
		Payload: map[string]any{
			"providerId": booking.ProviderID,
			"serviceId":  booking.ServiceID,
			"startTime":  booking.StartTime,
			"endTime":    booking.EndTime,
			"status":     string(booking.Status),
		},
		Timestamp: s.clock.Now(),
	}
}

// publishAfterCommit is the fast delivery path. The booking is already
// durable, so a publish failure is logged and counted, never surfaced;
// the outbox dispatcher redelivers the event later. A successful
// publish acknowledges the outbox row to avoid routine duplicates.
func (s *Service) publishAfterCommit(ctx context.Context, evt event.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.metrics.publishFailures.Add(1)
		s.logger.Warn("failed to publish booking event, outbox will redeliver",
			zap.String("eventId", evt.ID),
			zap.String("type", string(evt.Type)),
			zap.Error(err),
		)
		return
	}

	if err := s.store.MarkEventDelivered(ctx, evt.ID); err != nil {
		s.logger.Warn("failed to acknowledge outbox event",
			zap.String("eventId", evt.ID),
			zap.Error(err),
		)
	}
}

// asEngineError passes typed errors through and wraps raw store
// failures (begin/commit, timeouts) into the operation's error kind so
// the root cause stays attached.
func asEngineError(err error, kind ErrorKind, op string) error {
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return newOpError(kind, op, "transaction failed", err)
}
