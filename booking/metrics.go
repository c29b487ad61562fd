package booking

import "sync/atomic"

// Metrics holds the engine's operational counters. Each engine instance
// owns its own set; counters are process-local signals, not a
// correctness mechanism.
type Metrics struct {
	bookingsCreated    atomic.Int64
	bookingsModified   atomic.Int64
	bookingsCancelled  atomic.Int64
	conflictsDetected  atomic.Int64
	conflictsResolved  atomic.Int64
	validationFailures atomic.Int64
	publishFailures    atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the counters, safe for the
// caller to retain or serialize.
type MetricsSnapshot struct {
	BookingsCreated    int64 `json:"bookingsCreated"`
	BookingsModified   int64 `json:"bookingsModified"`
	BookingsCancelled  int64 `json:"bookingsCancelled"`
	ConflictsDetected  int64 `json:"conflictsDetected"`
	ConflictsResolved  int64 `json:"conflictsResolved"`
	ValidationFailures int64 `json:"validationFailures"`
	PublishFailures    int64 `json:"publishFailures"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		BookingsCreated:    m.bookingsCreated.Load(),
		BookingsModified:   m.bookingsModified.Load(),
		BookingsCancelled:  m.bookingsCancelled.Load(),
		ConflictsDetected:  m.conflictsDetected.Load(),
		ConflictsResolved:  m.conflictsResolved.Load(),
		ValidationFailures: m.validationFailures.Load(),
		PublishFailures:    m.publishFailures.Load(),
	}
}
