package event

import "time"

type Type string

const (
	TypeBookingCreated   Type = "booking.created"
	TypeBookingModified  Type = "booking.modified"
	TypeBookingCancelled Type = "booking.cancelled"
)

// Event is a booking lifecycle notification. Events are written to the
// outbox in the same transaction as the booking row and delivered
// at-least-once by the dispatcher.
type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	BookingID string         `json:"bookingId"`
	TenantID  string         `json:"tenantId"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
