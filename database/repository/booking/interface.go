// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"barberbook/database"
	"barberbook/models"
)

// BookingRepository persists bookings and drives their status transitions.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetOwnedByCustomer(ctx context.Context, id, customerID string) (*models.Booking, error)
	GetBySlotID(ctx context.Context, slotID string, statuses []string) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string, statuses []string) ([]models.Booking, error)
	ListBySlotIDs(ctx context.Context, slotIDs []string, statuses []string) ([]models.Booking, error)
	UpdateSchedule(ctx context.Context, id, newSlotID string, specialRequests *string, at time.Time) error
	SetStatus(ctx context.Context, id, status string, at time.Time) error
	Cancel(ctx context.Context, id, reason string, at time.Time) error
	SetRating(ctx context.Context, id string, rating int, review string, at time.Time) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository backed by the bookings
// collection.
func NewMongoBookingRepo() BookingRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("bookings")
	return &mongoBookingRepo{coll: coll}
}
