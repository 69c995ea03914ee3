// File: database/repository/device/crud.go
package deviceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"barberbook/models"
)

// UpsertByToken keys registration on (userId, pushToken): re-registering the
// same token refreshes metadata and reactivates the record instead of
// creating a duplicate.
func (r *mongoDeviceRepo) UpsertByToken(ctx context.Context, device *models.Device) (*models.Device, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	var existing models.Device
	err := r.coll.FindOne(ctx, bson.M{"userId": device.UserID, "pushToken": device.PushToken}).Decode(&existing)
	if err == nil {
		set := bson.M{
			"platform":   device.Platform,
			"isActive":   true,
			"updatedAt":  now,
			"lastSeen":   now,
			"deviceId":   device.DeviceID,
			"deviceName": device.DeviceName,
		}
		if device.BrowserInfo != "" {
			set["browserInfo"] = device.BrowserInfo
		}
		if _, err := r.coll.UpdateOne(ctx, bson.M{"id": existing.ID}, bson.M{"$set": set}); err != nil {
			return nil, false, fmt.Errorf("failed to refresh device: %w", err)
		}
		var refreshed models.Device
		if err := r.coll.FindOne(ctx, bson.M{"id": existing.ID}).Decode(&refreshed); err != nil {
			return nil, false, fmt.Errorf("failed to reload device: %w", err)
		}
		return &refreshed, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("failed to look up device: %w", err)
	}

	device.ID = uuid.NewString()
	device.IsActive = true
	device.CreatedAt = now
	device.UpdatedAt = now
	device.LastSeen = now
	if _, err := r.coll.InsertOne(ctx, device); err != nil {
		return nil, false, fmt.Errorf("failed to insert device: %w", err)
	}
	return device, true, nil
}

func (r *mongoDeviceRepo) SetActive(ctx context.Context, deviceID, userID string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": deviceID, "userId": userID}
	update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoDeviceRepo) Delete(ctx context.Context, deviceID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": deviceID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoDeviceRepo) UpdateToken(ctx context.Context, deviceID, userID, newToken string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"id": deviceID, "userId": userID}
	update := bson.M{"$set": bson.M{"pushToken": newToken, "isActive": true, "updatedAt": now, "lastSeen": now}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update device token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateByIDs marks devices whose tokens were rejected by the push
// provider as inactive so later fan-outs skip them.
func (r *mongoDeviceRepo) DeactivateByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bson.M{"$in": ids}}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate devices: %w", err)
	}
	return res.ModifiedCount, nil
}
