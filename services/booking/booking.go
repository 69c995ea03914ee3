// File: services/booking/booking.go
package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingRepo "barberbook/database/repository/booking"
	slotRepo "barberbook/database/repository/slot"
	userRepo "barberbook/database/repository/user"
	"barberbook/models"
	"barberbook/utils"
)

// Notifier fans booking events out to the affected party. Implementations
// must never fail the booking operation itself.
type Notifier interface {
	BookingReceived(ctx context.Context, barberID string, booking *models.Booking, slot *models.Slot, customerName string)
	BookingConfirmed(ctx context.Context, customerID string, booking *models.Booking, slot *models.Slot, shopName string)
	BookingCancelled(ctx context.Context, recipientID string, booking *models.Booking, slot *models.Slot, cancelledBy string)
}

// BookingService drives the booking lifecycle from reservation to a terminal
// state.
type BookingService interface {
	Book(ctx context.Context, customer models.Identity, req models.BookRequest) (*models.BookingDetails, error)
	Reschedule(ctx context.Context, customer models.Identity, bookingID string, req models.UpdateBookingRequest) (*models.BookingDetails, error)
	Cancel(ctx context.Context, user models.Identity, bookingID string, req models.CancelBookingRequest) error
	SetStatus(ctx context.Context, barber models.Identity, req models.SetBookingStatusRequest) (*models.Booking, error)
	Rate(ctx context.Context, customer models.Identity, bookingID string, req models.RateBookingRequest) error
	GetBooking(ctx context.Context, user models.Identity, bookingID string) (*models.BookingDetails, error)
	MyBookings(ctx context.Context, customer models.Identity, includeHistory bool) ([]models.BookingDetails, error)
	Upcoming(ctx context.Context, customer models.Identity) ([]models.BookingDetails, error)
	BarberSchedule(ctx context.Context, barber models.Identity, date string) ([]models.BookingDetails, error)
}

// DefaultBookingService is the production BookingService.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Slots    slotRepo.SlotRepository
	Users    userRepo.UserRepository
	Notifier Notifier
}

// NewBookingService wires a BookingService.
func NewBookingService(
	bookings bookingRepo.BookingRepository,
	slots slotRepo.SlotRepository,
	users userRepo.UserRepository,
	notifier Notifier,
) *DefaultBookingService {
	return &DefaultBookingService{Bookings: bookings, Slots: slots, Users: users, Notifier: notifier}
}

// Book reserves the slot and records a pending booking. Under concurrent
// attempts on the same slot, the reservation's compare-and-swap lets exactly
// one customer through.
func (s *DefaultBookingService) Book(ctx context.Context, customer models.Identity, req models.BookRequest) (*models.BookingDetails, error) {
	if customer.IsBarber() {
		return nil, utils.Errf(utils.CodeForbidden, "barbers cannot book slots")
	}

	slot, err := s.Slots.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return nil, utils.Errf(utils.CodeNotFound, "slot not found")
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not fetch slot")
	}

	now := time.Now().UTC()
	if !slot.StartTime().After(now) {
		return nil, utils.Errf(utils.CodeValidation, "slot is in the past")
	}
	if slot.IsBooked {
		return nil, utils.Errf(utils.CodeConflict, "slot is already booked")
	}
	if err := s.checkDuplicateTime(ctx, customer.ID, slot, ""); err != nil {
		return nil, err
	}

	reserved, err := s.Slots.Reserve(ctx, req.SlotID, customer.ID, now)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotTaken) {
			return nil, utils.Errf(utils.CodeConflict, "slot is already booked")
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not reserve slot")
	}

	booking := &models.Booking{
		CustomerID:      customer.ID,
		SlotID:          reserved.ID,
		Status:          models.BookingPending,
		SpecialRequests: req.SpecialRequests,
		BookedAt:        now,
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		if relErr := s.Slots.Release(ctx, reserved.ID); relErr != nil {
			utils.GetLogger().Error("Failed to release slot after booking insert failure",
				zap.String("slotId", reserved.ID), zap.Error(relErr))
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not record booking")
	}

	utils.GetLogger().Info("Booking created",
		zap.String("bookingId", booking.ID),
		zap.String("customerId", customer.ID),
		zap.String("slotId", reserved.ID))

	if s.Notifier != nil {
		s.Notifier.BookingReceived(ctx, reserved.BarberID, booking, reserved, s.displayName(ctx, customer.ID))
	}

	d := buildDetails(*booking, *reserved, now)
	return &d, nil
}

// Reschedule moves an active booking to a new slot, or just edits its
// special requests when no new slot is given. Moving is refused inside the
// modification cutoff of either the current or the target slot.
func (s *DefaultBookingService) Reschedule(ctx context.Context, customer models.Identity, bookingID string, req models.UpdateBookingRequest) (*models.BookingDetails, error) {
	booking, err := s.Bookings.GetOwnedByCustomer(ctx, bookingID, customer.ID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.Errf(utils.CodeNotFound, "booking not found")
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not fetch booking")
	}
	if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
		return nil, utils.Errf(utils.CodeConflict, "booking can no longer be modified")
	}

	now := time.Now().UTC()
	currentSlot, err := s.Slots.GetByID(ctx, booking.SlotID)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not fetch slot")
	}

	if req.NewSlotID == "" || req.NewSlotID == booking.SlotID {
		if req.SpecialRequests == nil {
			return nil, utils.Errf(utils.CodeValidation, "nothing to update")
		}
		if err := s.Bookings.UpdateSchedule(ctx, booking.ID, booking.SlotID, req.SpecialRequests, now); err != nil {
			return nil, utils.WrapErr(utils.CodeInternal, err, "could not update booking")
		}
		booking.SpecialRequests = *req.SpecialRequests
		booking.UpdatedAt = &now
		d := buildDetails(*booking, *currentSlot, now)
		return &d, nil
	}

	if !utils.WithinModifiableWindowAt(currentSlot.StartTime(), now) {
		return nil, utils.Errf(utils.CodeCutoffExceeded, "too close to the appointment to reschedule")
	}
	newSlot, err := s.Slots.GetByID(ctx, req.NewSlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return nil, utils.Errf(utils.CodeNotFound, "slot not found")
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not fetch slot")
	}
	if !utils.WithinModifiableWindowAt(newSlot.StartTime(), now) {
		return nil, utils.Errf(utils.CodeCutoffExceeded, "new slot starts too soon")
	}
	if err := s.checkDuplicateTime(ctx, customer.ID, newSlot, booking.ID); err != nil {
		return nil, err
	}

	reserved, err := s.Slots.Reassign(ctx, booking.SlotID, req.NewSlotID, customer.ID, now)
	if err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotTaken):
			return nil, utils.Errf(utils.CodeConflict, "slot is already booked")
		case errors.Is(err, slotRepo.ErrNotFound):
			return nil, utils.Errf(utils.CodeConflict, "current slot is no longer held")
		default:
			return nil, utils.WrapErr(utils.CodeInternal, err, "could not move reservation")
		}
	}

	if err := s.Bookings.UpdateSchedule(ctx, booking.ID, reserved.ID, req.SpecialRequests, now); err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not update booking")
	}

	utils.GetLogger().Info("Booking rescheduled",
		zap.String("bookingId", booking.ID),
		zap.String("fromSlotId", booking.SlotID),
		zap.String("toSlotId", reserved.ID))

	booking.SlotID = reserved.ID
	if req.SpecialRequests != nil {
		booking.SpecialRequests = *req.SpecialRequests
	}
	booking.UpdatedAt = &now
	d := buildDetails(*booking, *reserved, now)
	return &d, nil
}

// Cancel ends a booking and frees its slot. Customers are held to the
// modification cutoff; the slot's barber may cancel at any time.
func (s *DefaultBookingService) Cancel(ctx context.Context, user models.Identity, bookingID string, req models.CancelBookingRequest) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return utils.Errf(utils.CodeNotFound, "booking not found")
		}
		return utils.WrapErr(utils.CodeInternal, err, "could not fetch booking")
	}
	slot, err := s.Slots.GetByID(ctx, booking.SlotID)
	if err != nil {
		return utils.WrapErr(utils.CodeInternal, err, "could not fetch slot")
	}

	isCustomer := booking.CustomerID == user.ID
	isOwningBarber := user.IsBarber() && slot.BarberID == user.ID
	if !isCustomer && !isOwningBarber {
		return utils.Errf(utils.CodeForbidden, "not your booking")
	}
	if models.IsTerminalBookingStatus(booking.Status) {
		return utils.Errf(utils.CodeConflict, "booking is already closed")
	}

	now := time.Now().UTC()
	if isCustomer && !isOwningBarber {
		if !utils.WithinModifiableWindowAt(slot.StartTime(), now) {
			return utils.Errf(utils.CodeCutoffExceeded, "too close to the appointment to cancel")
		}
	}

	if err := s.Bookings.Cancel(ctx, booking.ID, req.Reason, now); err != nil {
		return utils.WrapErr(utils.CodeInternal, err, "could not cancel booking")
	}
	if err := s.Slots.Release(ctx, slot.ID); err != nil {
		utils.GetLogger().Error("Failed to release slot after cancellation",
			zap.String("slotId", slot.ID), zap.Error(err))
	}

	utils.GetLogger().Info("Booking cancelled",
		zap.String("bookingId", booking.ID),
		zap.String("cancelledBy", user.ID))

	booking.Status = models.BookingCancelled
	booking.CancellationReason = req.Reason
	if s.Notifier != nil {
		recipient := booking.CustomerID
		if isCustomer {
			recipient = slot.BarberID
		}
		s.Notifier.BookingCancelled(ctx, recipient, booking, slot, s.displayName(ctx, user.ID))
	}
	return nil
}

// checkDuplicateTime refuses a reservation when the customer already holds an
// active booking with the same barber whose time range overlaps the target
// slot. Duplicate-capacity slots make this a time comparison, not a slot ID
// comparison; back-to-back slots do not collide.
func (s *DefaultBookingService) checkDuplicateTime(ctx context.Context, customerID string, target *models.Slot, excludeBookingID string) error {
	active, err := s.Bookings.ListByCustomer(ctx, customerID, models.ActiveBookingStatuses)
	if err != nil {
		return utils.WrapErr(utils.CodeInternal, err, "could not check existing bookings")
	}
	if len(active) == 0 {
		return nil
	}

	slotIDs := make([]string, 0, len(active))
	for _, b := range active {
		if b.ID == excludeBookingID {
			continue
		}
		slotIDs = append(slotIDs, b.SlotID)
	}
	held, err := s.Slots.GetByIDs(ctx, slotIDs)
	if err != nil {
		return utils.WrapErr(utils.CodeInternal, err, "could not check existing bookings")
	}
	for _, h := range held {
		if h.BarberID == target.BarberID && h.Date == target.Date &&
			utils.Overlaps(h.Start, h.End, target.Start, target.End) {
			return utils.Errf(utils.CodeConflict, "you already have a booking at this time")
		}
	}
	return nil
}

func (s *DefaultBookingService) displayName(ctx context.Context, userID string) string {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "a customer"
	}
	return u.DisplayName()
}

func buildDetails(b models.Booking, slot models.Slot, now time.Time) models.BookingDetails {
	active := !models.IsTerminalBookingStatus(b.Status)
	return models.BookingDetails{
		Booking:   b,
		Slot:      slot,
		CanModify: active && utils.WithinModifiableWindowAt(slot.StartTime(), now),
		IsPast:    !slot.StartTime().After(now),
	}
}
