package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotbook/booking-backend/event"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same
// queries serve pooled reads and transactional reads.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const bookingColumns = `id, tenant_id, service_id, provider_id,
            customer_name, customer_email, customer_phone,
            start_time, end_time, status,
            COALESCE(notes, ''), metadata, COALESCE(special_requests, ''),
            reschedule_count, COALESCE(cancellation_reason, ''), COALESCE(cancellation_notes, ''),
            refund_requested, refund_eligible, history, created_at, updated_at`

// Repository is the PostgreSQL booking store. Writers for the same
// provider calendar are serialized with a transaction-scoped advisory
// lock taken before the conflict window is read (see Store).
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	pgtx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})

	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer pgtx.Rollback(ctx)

	if err := fn(&repoTx{tx: pgtx}); err != nil {
		return err
	}

	if err := pgtx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *Repository) GetBooking(ctx context.Context, tenantID, id string) (Booking, error) {
	return getBooking(ctx, r.pool, tenantID, id)
}

func (r *Repository) ListActiveForProvider(ctx context.Context, tenantID, providerID string, from, to time.Time) ([]Booking, error) {
	return listActiveForProvider(ctx, r.pool, tenantID, providerID, from, to)
}

// MarkCompletedBookings advances confirmed bookings whose slot has
// passed to completed. Invoked by the status-advancement job.
func (r *Repository) MarkCompletedBookings(ctx context.Context, now time.Time) (int64, error) {
	sql := `
            UPDATE "appointment-booking".bookings
            SET status='completed', updated_at=$1
            WHERE status='confirmed' AND end_time <= $1;
        `

	tag, err := r.pool.Exec(ctx, sql, now)

	if err != nil {
		return 0, fmt.Errorf("failed to mark completed bookings: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *Repository) ListUndeliveredEvents(ctx context.Context, limit int) ([]event.Event, error) {
	sql := `
            SELECT id, event_type, booking_id, tenant_id, payload, created_at
            FROM "appointment-booking".outbox_events
            WHERE delivered_at IS NULL
            ORDER BY created_at
            LIMIT $1;
        `

	rows, err := r.pool.Query(ctx, sql, limit)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch undelivered events: %w", err)
	}

	defer rows.Close()

	var events []event.Event

	for rows.Next() {
		var evt event.Event
		var eventType string
		err := rows.Scan(&evt.ID, &eventType, &evt.BookingID, &evt.TenantID, &evt.Payload, &evt.Timestamp)

		if err != nil {
			return nil, fmt.Errorf("error scanning outbox row: %w", err)
		}

		evt.Type = event.Type(eventType)
		events = append(events, evt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox rows: %w", err)
	}

	return events, nil
}

func (r *Repository) MarkEventDelivered(ctx context.Context, id string) error {
	sql := `
            UPDATE "appointment-booking".outbox_events
            SET delivered_at=$1
            WHERE id=$2 AND delivered_at IS NULL;
        `

	_, err := r.pool.Exec(ctx, sql, time.Now().UTC(), id)

	if err != nil {
		return fmt.Errorf("failed to mark event '%v' delivered: %w", id, err)
	}

	return nil
}

type repoTx struct {
	tx pgx.Tx
}

func (t *repoTx) LockProviderCalendar(ctx context.Context, tenantID, providerID string) error {
	// Transaction-scoped advisory lock keyed on the calendar. Released
	// automatically on commit or rollback.
	sql := `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2));`

	if _, err := t.tx.Exec(ctx, sql, tenantID, providerID); err != nil {
		return fmt.Errorf("failed to lock calendar for provider '%v': %w", providerID, err)
	}

	return nil
}

func (t *repoTx) GetBooking(ctx context.Context, tenantID, id string) (Booking, error) {
	return getBooking(ctx, t.tx, tenantID, id)
}

func (t *repoTx) ListActiveForProvider(ctx context.Context, tenantID, providerID string, from, to time.Time) ([]Booking, error) {
	return listActiveForProvider(ctx, t.tx, tenantID, providerID, from, to)
}

func (t *repoTx) CountActiveForCustomer(ctx context.Context, tenantID, customerEmail string) (int, error) {
	sql := `
            SELECT COUNT(*)
            FROM "appointment-booking".bookings
            WHERE tenant_id=$1 AND customer_email=$2
            AND status IN ('pending', 'confirmed')
            AND end_time > NOW();
        `

	var count int
	err := t.tx.QueryRow(ctx, sql, tenantID, customerEmail).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings for customer: %w", err)
	}

	return count, nil
}

func (t *repoTx) InsertBooking(ctx context.Context, booking Booking) (Booking, error) {
	sql := `
            INSERT INTO "appointment-booking".bookings(
            id, tenant_id, service_id, provider_id,
            customer_name, customer_email, customer_phone,
            start_time, end_time, status,
            notes, metadata, special_requests,
            reschedule_count, refund_requested, refund_eligible,
            history, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
            RETURNING id;
        `

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	err := t.tx.QueryRow(ctx, sql,
		booking.ID,
		booking.TenantID,
		booking.ServiceID,
		booking.ProviderID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Notes,
		booking.Metadata,
		booking.SpecialRequests,
		booking.RescheduleCount,
		booking.RefundRequested,
		booking.RefundEligible,
		booking.History,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&booking.ID)

	if err != nil {
		return Booking{}, fmt.Errorf("failed to insert booking: %w", err)
	}

	return booking, nil
}

func (t *repoTx) UpdateBooking(ctx context.Context, booking Booking) error {
	sql := `
            UPDATE "appointment-booking".bookings
            SET
                service_id=$1,
                provider_id=$2,
                start_time=$3,
                end_time=$4,
                status=$5,
                notes=$6,
                metadata=$7,
                special_requests=$8,
                reschedule_count=$9,
                cancellation_reason=$10,
                cancellation_notes=$11,
                refund_requested=$12,
                refund_eligible=$13,
                history=$14,
                updated_at=$15
            WHERE tenant_id=$16 AND id=$17;
        `

	tag, err := t.tx.Exec(ctx, sql,
		booking.ServiceID,
		booking.ProviderID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Notes,
		booking.Metadata,
		booking.SpecialRequests,
		booking.RescheduleCount,
		string(booking.CancellationReason),
		booking.CancellationNotes,
		booking.RefundRequested,
		booking.RefundEligible,
		booking.History,
		booking.UpdatedAt,
		booking.TenantID,
		booking.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (t *repoTx) InsertOutboxEvent(ctx context.Context, evt event.Event) error {
	sql := `
            INSERT INTO "appointment-booking".outbox_events(
            id, event_type, booking_id, tenant_id, payload, created_at)
            VALUES ($1, $2, $3, $4, $5, $6);
        `

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}

	_, err := t.tx.Exec(ctx, sql,
		evt.ID,
		string(evt.Type),
		evt.BookingID,
		evt.TenantID,
		evt.Payload,
		evt.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	return nil
}

func getBooking(ctx context.Context, q querier, tenantID, id string) (Booking, error) {
	// Tenant mismatch reads identically to not-found so existence never
	// leaks across tenants.
	sql := `
            SELECT ` + bookingColumns + `
            FROM "appointment-booking".bookings
            WHERE tenant_id=$1 AND id=$2;
        `

	booking, err := scanBooking(q.QueryRow(ctx, sql, tenantID, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrBookingNotFound
	}

	if err != nil {
		return Booking{}, fmt.Errorf("failed to fetch booking with id %v: %w", id, err)
	}

	return booking, nil
}

func listActiveForProvider(ctx context.Context, q querier, tenantID, providerID string, from, to time.Time) ([]Booking, error) {
	sql := `
            SELECT ` + bookingColumns + `
            FROM "appointment-booking".bookings
            WHERE tenant_id=$1 AND provider_id=$2
            AND status IN ('pending', 'confirmed')
            AND start_time < $4 AND end_time > $3
            ORDER BY start_time;
        `

	rows, err := q.Query(ctx, sql, tenantID, providerID, from, to)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for provider '%v': %w", providerID, err)
	}

	defer rows.Close()

	var bookings []Booking

	for rows.Next() {
		booking, err := scanBooking(rows)

		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}

		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings rows: %w", err)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (Booking, error) {
	var booking Booking
	var status, cancellationReason string

	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.ServiceID,
		&booking.ProviderID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.StartTime,
		&booking.EndTime,
		&status,
		&booking.Notes,
		&booking.Metadata,
		&booking.SpecialRequests,
		&booking.RescheduleCount,
		&cancellationReason,
		&booking.CancellationNotes,
		&booking.RefundRequested,
		&booking.RefundEligible,
		&booking.History,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		return Booking{}, err
	}

	booking.Status = Status(status)
	booking.CancellationReason = CancelReason(cancellationReason)

	return booking, nil
}
