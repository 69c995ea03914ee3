// File: database/repository/booking/crud.go
package bookingRepo

import (
	"fmt"
	"time"

	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"barberbook/models"
)

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.BookedAt.IsZero() {
		booking.BookedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) UpdateSchedule(ctx context.Context, id, newSlotID string, specialRequests *string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"slotId": newSlotID, "updatedAt": at}
	if specialRequests != nil {
		set["specialRequests"] = *specialRequests
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking schedule: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepo) SetStatus(ctx context.Context, id, status string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status, "updatedAt": at}
	switch status {
	case models.BookingCompleted:
		set["completedAt"] = at
	case models.BookingCancelled, models.BookingNoShow:
		set["cancelledAt"] = at
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepo) Cancel(ctx context.Context, id, reason string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"status":             models.BookingCancelled,
		"cancellationReason": reason,
		"cancelledAt":        at,
		"updatedAt":          at,
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepo) SetRating(ctx context.Context, id string, rating int, review string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"rating": rating, "reviewText": review, "updatedAt": at}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to rate booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
