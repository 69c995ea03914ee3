// File: services/booking/status.go
package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingRepo "barberbook/database/repository/booking"
	"barberbook/models"
	"barberbook/utils"
)

// SetStatus is the barber-side lifecycle transition. Any status within the
// enum is accepted for an open booking; terminal bookings are frozen.
func (s *DefaultBookingService) SetStatus(ctx context.Context, barber models.Identity, req models.SetBookingStatusRequest) (*models.Booking, error) {
	if !barber.IsBarber() {
		return nil, utils.Errf(utils.CodeForbidden, "only barbers can set booking status")
	}
	if !models.IsValidBookingStatus(req.NewStatus) {
		return nil, utils.Errf(utils.CodeValidation, "unknown status %q", req.NewStatus)
	}

	booking, err := s.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.Errf(utils.CodeNotFound, "booking not found")
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not fetch booking")
	}
	slot, err := s.Slots.GetByID(ctx, booking.SlotID)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not fetch slot")
	}
	if slot.BarberID != barber.ID {
		return nil, utils.Errf(utils.CodeForbidden, "booking is not on your slot")
	}
	if models.IsTerminalBookingStatus(booking.Status) {
		return nil, utils.Errf(utils.CodeConflict, "booking is already closed")
	}

	now := time.Now().UTC()
	if err := s.Bookings.SetStatus(ctx, booking.ID, req.NewStatus, now); err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not update booking status")
	}
	booking.Status = req.NewStatus
	booking.UpdatedAt = &now

	utils.GetLogger().Info("Booking status updated",
		zap.String("bookingId", booking.ID),
		zap.String("status", req.NewStatus))

	switch req.NewStatus {
	case models.BookingCancelled:
		if err := s.Slots.Release(ctx, slot.ID); err != nil {
			utils.GetLogger().Error("Failed to release slot after cancellation",
				zap.String("slotId", slot.ID), zap.Error(err))
		}
		if s.Notifier != nil {
			s.Notifier.BookingCancelled(ctx, booking.CustomerID, booking, slot, s.shopName(ctx, barber.ID))
		}
	case models.BookingConfirmed:
		if s.Notifier != nil {
			s.Notifier.BookingConfirmed(ctx, booking.CustomerID, booking, slot, s.shopName(ctx, barber.ID))
		}
	}
	return booking, nil
}

// Rate records a one-time rating for a completed booking.
func (s *DefaultBookingService) Rate(ctx context.Context, customer models.Identity, bookingID string, req models.RateBookingRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return utils.Errf(utils.CodeValidation, "rating must be between 1 and 5")
	}
	booking, err := s.Bookings.GetOwnedByCustomer(ctx, bookingID, customer.ID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return utils.Errf(utils.CodeNotFound, "booking not found")
		}
		return utils.WrapErr(utils.CodeInternal, err, "could not fetch booking")
	}
	if booking.Status != models.BookingCompleted {
		return utils.Errf(utils.CodeConflict, "only completed bookings can be rated")
	}
	if booking.Rating != nil {
		return utils.Errf(utils.CodeConflict, "booking has already been rated")
	}
	if err := s.Bookings.SetRating(ctx, booking.ID, req.Rating, req.ReviewText, time.Now().UTC()); err != nil {
		return utils.WrapErr(utils.CodeInternal, err, "could not save rating")
	}
	return nil
}

func (s *DefaultBookingService) shopName(ctx context.Context, barberID string) string {
	u, err := s.Users.GetByID(ctx, barberID)
	if err != nil {
		return "your barber"
	}
	if u.ShopName != "" {
		return u.ShopName
	}
	return u.DisplayName()
}
