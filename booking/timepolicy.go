package booking

import "time"

// PolicyConfig carries the temporal business rules the engine enforces.
// All checks are pure functions of (now, interval, config) so every edge
// case is unit-testable without a store.
type PolicyConfig struct {
	MinAdvance               time.Duration
	MaxHorizon               time.Duration
	CancellationWindow       time.Duration
	MaxReschedules           int
	MaxConcurrentPerCustomer int
	ConfirmOnCreate          bool
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MinAdvance:               30 * time.Minute,
		MaxHorizon:               365 * 24 * time.Hour,
		CancellationWindow:       24 * time.Hour,
		MaxReschedules:           3,
		MaxConcurrentPerCustomer: 5,
		ConfirmOnCreate:          true,
	}
}

// InitialStatus is the status a booking is created with.
func (c PolicyConfig) InitialStatus() Status {
	if c.ConfirmOnCreate {
		return StatusConfirmed
	}
	return StatusPending
}

type ViolationKind string

const (
	ViolationInvalidOrder ViolationKind = "invalid_order"
	ViolationTooSoon      ViolationKind = "too_soon"
	ViolationTooFar       ViolationKind = "too_far"
)

type TimeViolation struct {
	Kind    ViolationKind
	Message string
}

// CheckInterval validates a candidate [start, end) interval against the
// policy. A start exactly MinAdvance from now is accepted; a start
// exactly at the horizon is accepted.
func (c PolicyConfig) CheckInterval(now, start, end time.Time) *TimeViolation {
	if !start.Before(end) {
		return &TimeViolation{Kind: ViolationInvalidOrder, Message: "end time must be after start time"}
	}

	if start.Before(now.Add(c.MinAdvance)) {
		return &TimeViolation{Kind: ViolationTooSoon, Message: "booking must be made further in advance"}
	}

	if start.After(now.Add(c.MaxHorizon)) {
		return &TimeViolation{Kind: ViolationTooFar, Message: "booking is beyond the allowed horizon"}
	}

	return nil
}

// RefundEligible reports whether a cancellation made now is inside the
// automatic refund window. Cancellations closer to the start time are
// still accepted, but the refund decision is deferred.
func (c PolicyConfig) RefundEligible(now, start time.Time) bool {
	return start.Sub(now) > c.CancellationWindow
}
