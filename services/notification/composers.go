// File: services/notification/composers.go
package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"barberbook/models"
	"barberbook/utils"
)

// formatClock renders minutes-from-midnight as a 12-hour clock time.
func formatClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	suffix := "AM"
	switch {
	case h == 0:
		h = 12
	case h == 12:
		suffix = "PM"
	case h > 12:
		h -= 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

func slotSummary(slot *models.Slot) string {
	return fmt.Sprintf("%s at %s", slot.Date, formatClock(slot.Start))
}

// BookingReceived tells the barber a new booking landed on one of their
// slots. Delivery failure never fails the booking itself.
func (s *DefaultNotificationService) BookingReceived(ctx context.Context, barberID string, booking *models.Booking, slot *models.Slot, customerName string) {
	title := "New booking received"
	message := fmt.Sprintf("%s booked %s.", customerName, slotSummary(slot))
	s.composeAndNotify(ctx, barberID, title, message, models.NotificationBookingReceived, booking, slot)
}

// BookingConfirmed tells the customer their booking was confirmed.
func (s *DefaultNotificationService) BookingConfirmed(ctx context.Context, customerID string, booking *models.Booking, slot *models.Slot, shopName string) {
	title := "Booking confirmed"
	message := fmt.Sprintf("Your appointment at %s on %s is confirmed.", shopName, slotSummary(slot))
	s.composeAndNotify(ctx, customerID, title, message, models.NotificationBookingConfirmed, booking, slot)
}

// BookingCancelled tells the other party a booking was cancelled.
func (s *DefaultNotificationService) BookingCancelled(ctx context.Context, recipientID string, booking *models.Booking, slot *models.Slot, cancelledBy string) {
	title := "Booking cancelled"
	message := fmt.Sprintf("The appointment on %s was cancelled by %s.", slotSummary(slot), cancelledBy)
	if booking.CancellationReason != "" {
		message = fmt.Sprintf("%s Reason: %s", message, booking.CancellationReason)
	}
	s.composeAndNotify(ctx, recipientID, title, message, models.NotificationBookingCancelled, booking, slot)
}

func (s *DefaultNotificationService) composeAndNotify(ctx context.Context, userID, title, message, ntype string, booking *models.Booking, slot *models.Slot) {
	data := map[string]string{
		"type":      ntype,
		"bookingId": booking.ID,
		"slotId":    slot.ID,
		"date":      slot.Date,
	}
	if _, err := s.Notify(ctx, userID, title, message, ntype, booking.ID, data); err != nil {
		utils.GetLogger().Warn("Could not send booking notification",
			zap.String("userId", userID),
			zap.String("type", ntype),
			zap.Error(err))
	}
}
