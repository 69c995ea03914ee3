package utils

import "time"

// ModificationCutoff is how long before a slot's start a booking becomes
// frozen for customer changes.
const ModificationCutoff = 2 * time.Hour

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap. Values are
// minutes from midnight.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// WithinModifiableWindow reports whether a booking whose slot starts at
// slotStart may still be modified or cancelled.
func WithinModifiableWindow(slotStart time.Time) bool {
	return WithinModifiableWindowAt(slotStart, time.Now().UTC())
}

// WithinModifiableWindowAt is the clock-injected form: true iff
// slotStart - now is strictly greater than the cutoff. Exactly at the cutoff
// the window is closed.
func WithinModifiableWindowAt(slotStart, now time.Time) bool {
	return slotStart.Sub(now) > ModificationCutoff
}
