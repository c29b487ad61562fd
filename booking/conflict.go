package booking

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Adjacent intervals do not overlap, so
// back-to-back bookings are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return bStart.Before(aEnd) && bEnd.After(aStart)
}

// FindConflict returns the first active booking whose interval overlaps
// [start, end), skipping the booking identified by excludeID so a modify
// does not collide with its own current row. The caller supplies the
// candidate set, pre-filtered by the store to a narrow time window.
func FindConflict(start, end time.Time, existing []Booking, excludeID string) (*Booking, bool) {
	for i := range existing {
		b := &existing[i]
		if b.ID == excludeID || !b.Status.IsActive() {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			return b, true
		}
	}
	return nil, false
}

// AllConflicts enumerates every overlapping active booking. Diagnostic
// helper; the engine only needs the first conflict.
func AllConflicts(start, end time.Time, existing []Booking, excludeID string) []Booking {
	var conflicts []Booking
	for _, b := range existing {
		if b.ID == excludeID || !b.Status.IsActive() {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}
