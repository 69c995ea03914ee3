// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"time"

	"barberbook/database"
	"barberbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository owns slot records. Reserve and Reassign carry the
// concurrency contracts: Reserve is a compare-and-swap on isBooked with
// at-most-one-winner semantics; Reassign moves a reservation between two
// slots inside one transaction.
type SlotRepository interface {
	CreateMany(ctx context.Context, slots []models.Slot) ([]models.Slot, error)
	GetByID(ctx context.Context, slotID string) (*models.Slot, error)
	GetByIDs(ctx context.Context, slotIDs []string) ([]models.Slot, error)
	GetByBarberAndDate(ctx context.Context, barberID, date string) ([]models.Slot, error)
	ListIDsByBarber(ctx context.Context, barberID string) ([]string, error)
	FindAvailable(ctx context.Context, barberID, fromDate, toDate string) ([]models.Slot, error)
	CountAvailableByStart(ctx context.Context, barberID, date string) ([]models.SlotBucketCount, error)

	Reserve(ctx context.Context, slotID, customerID string, now time.Time) (*models.Slot, error)
	Release(ctx context.Context, slotID string) error
	Reassign(ctx context.Context, oldSlotID, newSlotID, customerID string, now time.Time) (*models.Slot, error)

	DeleteByID(ctx context.Context, barberID, slotID string) error
	DeleteMany(ctx context.Context, barberID, date string, start, end *int, unbookedOnly bool) (int64, error)
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoSlotRepo{
		coll: db.Collection("slots"),
	}
}
