package booking

import (
	"context"
	"time"

	"github.com/slotbook/booking-backend/event"
)

// Store is the persistence boundary the engine depends on.
//
// Isolation contract: the function passed to WithinTx runs inside a
// single database transaction. After Tx.LockProviderCalendar has been
// called for a (tenant, provider) pair, no other transaction may read
// that provider's window, pass conflict detection, and commit an
// overlapping row until this transaction commits or rolls back. This is
// what makes read-check-write atomic with respect to other writers and
// is the crux of the engine's correctness.
type Store interface {
	// WithinTx runs fn inside a transaction. A non-nil error from fn
	// rolls the transaction back and is returned unchanged.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	GetBooking(ctx context.Context, tenantID, id string) (Booking, error)
	ListActiveForProvider(ctx context.Context, tenantID, providerID string, from, to time.Time) ([]Booking, error)
}

// EngineStore extends Store with the post-commit acknowledgement used
// by the engine's fast publish path.
type EngineStore interface {
	Store
	MarkEventDelivered(ctx context.Context, id string) error
}

// Tx is the set of store operations available inside a transaction.
type Tx interface {
	// LockProviderCalendar serializes writers for one provider's
	// calendar within the tenant. Held until commit or rollback.
	LockProviderCalendar(ctx context.Context, tenantID, providerID string) error

	GetBooking(ctx context.Context, tenantID, id string) (Booking, error)
	ListActiveForProvider(ctx context.Context, tenantID, providerID string, from, to time.Time) ([]Booking, error)
	CountActiveForCustomer(ctx context.Context, tenantID, customerEmail string) (int, error)
	InsertBooking(ctx context.Context, b Booking) (Booking, error)
	UpdateBooking(ctx context.Context, b Booking) error
	InsertOutboxEvent(ctx context.Context, evt event.Event) error
}
