// File: services/booking/listings.go
package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	bookingRepo "barberbook/database/repository/booking"
	"barberbook/models"
	"barberbook/utils"
)

// GetBooking returns one booking with its slot. Customers see their own
// bookings; barbers see bookings on their own slots.
func (s *DefaultBookingService) GetBooking(ctx context.Context, user models.Identity, bookingID string) (*models.BookingDetails, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
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
	if booking.CustomerID != user.ID && !(user.IsBarber() && slot.BarberID == user.ID) {
		return nil, utils.Errf(utils.CodeNotFound, "booking not found")
	}
	d := buildDetails(*booking, *slot, time.Now().UTC())
	return &d, nil
}

// MyBookings lists the customer's bookings, active ones only unless history
// is requested.
func (s *DefaultBookingService) MyBookings(ctx context.Context, customer models.Identity, includeHistory bool) ([]models.BookingDetails, error) {
	statuses := models.ActiveBookingStatuses
	if includeHistory {
		statuses = nil
	}
	bookings, err := s.Bookings.ListByCustomer(ctx, customer.ID, statuses)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not list bookings")
	}
	return s.join(ctx, bookings)
}

// Upcoming lists the customer's active bookings whose slot has not started
// yet, soonest first.
func (s *DefaultBookingService) Upcoming(ctx context.Context, customer models.Identity) ([]models.BookingDetails, error) {
	bookings, err := s.Bookings.ListByCustomer(ctx, customer.ID, models.ActiveBookingStatuses)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not list bookings")
	}
	all, err := s.join(ctx, bookings)
	if err != nil {
		return nil, err
	}
	var upcoming []models.BookingDetails
	for _, d := range all {
		if !d.IsPast {
			upcoming = append(upcoming, d)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Slot.StartTime().Before(upcoming[j].Slot.StartTime())
	})
	return upcoming, nil
}

// BarberSchedule lists all bookings on the barber's slots for one date.
func (s *DefaultBookingService) BarberSchedule(ctx context.Context, barber models.Identity, date string) ([]models.BookingDetails, error) {
	if !barber.IsBarber() {
		return nil, utils.Errf(utils.CodeForbidden, "only barbers can view their schedule")
	}
	slots, err := s.Slots.GetByBarberAndDate(ctx, barber.ID, date)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not list slots")
	}
	if len(slots) == 0 {
		return nil, nil
	}
	byID := make(map[string]models.Slot, len(slots))
	slotIDs := make([]string, 0, len(slots))
	for _, sl := range slots {
		byID[sl.ID] = sl
		slotIDs = append(slotIDs, sl.ID)
	}
	bookings, err := s.Bookings.ListBySlotIDs(ctx, slotIDs, nil)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not list bookings")
	}

	now := time.Now().UTC()
	details := make([]models.BookingDetails, 0, len(bookings))
	for _, b := range bookings {
		slot, ok := byID[b.SlotID]
		if !ok {
			continue
		}
		details = append(details, buildDetails(b, slot, now))
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Slot.Start < details[j].Slot.Start
	})
	return details, nil
}

func (s *DefaultBookingService) join(ctx context.Context, bookings []models.Booking) ([]models.BookingDetails, error) {
	if len(bookings) == 0 {
		return nil, nil
	}
	slotIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		slotIDs = append(slotIDs, b.SlotID)
	}
	slots, err := s.Slots.GetByIDs(ctx, slotIDs)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not fetch slots")
	}
	byID := make(map[string]models.Slot, len(slots))
	for _, sl := range slots {
		byID[sl.ID] = sl
	}

	now := time.Now().UTC()
	details := make([]models.BookingDetails, 0, len(bookings))
	for _, b := range bookings {
		slot, ok := byID[b.SlotID]
		if !ok {
			continue
		}
		details = append(details, buildDetails(b, slot, now))
	}
	return details, nil
}
