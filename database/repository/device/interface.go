// File: database/repository/device/interface.go
package deviceRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"barberbook/database"
	"barberbook/models"
)

// DeviceRepository persists push-notification device registrations.
type DeviceRepository interface {
	// UpsertByToken registers a device, reactivating and refreshing the
	// existing record when (userId, pushToken) is already known. The second
	// return value reports whether a new record was created.
	UpsertByToken(ctx context.Context, device *models.Device) (*models.Device, bool, error)
	GetOwned(ctx context.Context, deviceID, userID string) (*models.Device, error)
	ListByUser(ctx context.Context, userID string) ([]models.Device, error)
	// ListActiveByUser returns the user's active devices, optionally
	// restricted to one platform (empty string means all platforms).
	ListActiveByUser(ctx context.Context, userID string, platform models.Platform) ([]models.Device, error)
	CountActiveByUser(ctx context.Context, userID string) (int64, error)
	SetActive(ctx context.Context, deviceID, userID string, active bool) error
	Delete(ctx context.Context, deviceID, userID string) error
	UpdateToken(ctx context.Context, deviceID, userID, newToken string) error
	DeactivateByIDs(ctx context.Context, ids []string) (int64, error)
}

type mongoDeviceRepo struct {
	coll *mongo.Collection
}

// NewMongoDeviceRepo returns a DeviceRepository backed by the devices
// collection.
func NewMongoDeviceRepo() DeviceRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("devices")
	return &mongoDeviceRepo{coll: coll}
}
