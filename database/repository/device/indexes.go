// File: database/repository/device/indexes.go
package deviceRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"barberbook/utils"
)

// EnsureDeviceIndexes sets up the indexes the push fan-out depends on.
func EnsureDeviceIndexes(coll *mongo.Collection) {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "pushToken", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "platform", Value: 1}},
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Error("Failed to create device indexes", zap.Error(err))
		return
	}
	logger.Info("Device indexes ensured")
}
