package slotRepo

import "errors"

var (
	// ErrNotFound reports that no slot matched the given ID/owner.
	ErrNotFound = errors.New("slot not found")
	// ErrSlotTaken reports a lost reservation race or an unavailable target.
	ErrSlotTaken = errors.New("slot is not available")
	// ErrSlotBooked blocks deletion of a slot with a live reservation.
	ErrSlotBooked = errors.New("slot is booked")
)
