package models

import "time"

// Booking statuses. Completed, cancelled and no_show are terminal.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
	BookingNoShow     = "no_show"
)

// BookingStatuses is the closed set of valid statuses.
var BookingStatuses = []string{
	BookingPending, BookingConfirmed, BookingInProgress,
	BookingCompleted, BookingCancelled, BookingNoShow,
}

// ActiveBookingStatuses are the non-terminal statuses.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed, BookingInProgress}

// IsValidBookingStatus reports membership in the status enum.
func IsValidBookingStatus(s string) bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminalBookingStatus reports whether a status ends the booking lifecycle.
func IsTerminalBookingStatus(s string) bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingNoShow
}

// Booking is a customer's claim on exactly one slot.
type Booking struct {
	ID                 string     `bson:"id" json:"id"`
	CustomerID         string     `bson:"customerId" json:"customerId"`
	SlotID             string     `bson:"slotId" json:"slotId"`
	Status             string     `bson:"status" json:"status"`
	SpecialRequests    string     `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	CancellationReason string     `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	Rating             *int       `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewText         string     `bson:"reviewText,omitempty" json:"reviewText,omitempty"`
	BookedAt           time.Time  `bson:"bookedAt" json:"bookedAt"`
	UpdatedAt          *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	CancelledAt        *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// BookRequest books one slot for the calling customer.
type BookRequest struct {
	SlotID          string `json:"slotId" binding:"required"`
	SpecialRequests string `json:"specialRequests"`
}

// UpdateBookingRequest reschedules a booking and/or changes its requests.
type UpdateBookingRequest struct {
	NewSlotID       string  `json:"newSlotId"`
	SpecialRequests *string `json:"specialRequests"`
}

// CancelBookingRequest carries an optional cancellation reason.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// SetBookingStatusRequest is the barber-side status transition.
type SetBookingStatusRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	NewStatus string `json:"newStatus" binding:"required"`
}

// RateBookingRequest rates a completed booking, once.
type RateBookingRequest struct {
	Rating     int    `json:"rating" binding:"required"`
	ReviewText string `json:"reviewText"`
}

// BookingDetails joins a booking with its slot for list views.
type BookingDetails struct {
	Booking   Booking `json:"booking"`
	Slot      Slot    `json:"slot"`
	CanModify bool    `json:"canModify"`
	IsPast    bool    `json:"isPast"`
}
