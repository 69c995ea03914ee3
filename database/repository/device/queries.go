// File: database/repository/device/queries.go
package deviceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barberbook/models"
)

func (r *mongoDeviceRepo) GetOwned(ctx context.Context, deviceID, userID string) (*models.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var device models.Device
	err := r.coll.FindOne(ctx, bson.M{"id": deviceID, "userId": userID}).Decode(&device)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch device: %w", err)
	}
	return &device, nil
}

func (r *mongoDeviceRepo) ListByUser(ctx context.Context, userID string) ([]models.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lastSeen", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer cursor.Close(ctx)

	var devices []models.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

func (r *mongoDeviceRepo) ListActiveByUser(ctx context.Context, userID string, platform models.Platform) ([]models.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "isActive": true}
	if platform != "" {
		filter["platform"] = platform
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list active devices: %w", err)
	}
	defer cursor.Close(ctx)

	var devices []models.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

func (r *mongoDeviceRepo) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID, "isActive": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count active devices: %w", err)
	}
	return count, nil
}
