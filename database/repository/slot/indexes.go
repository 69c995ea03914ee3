// File: database/repository/slot/indexes.go
package slotRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"barberbook/utils"
)

// EnsureSlotIndexes sets up the indexes the booking queries depend on.
func EnsureSlotIndexes(coll *mongo.Collection) {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "barberId", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "isBooked", Value: 1}, {Key: "date", Value: 1}},
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Error("Failed to create slot indexes", zap.Error(err))
		return
	}
	logger.Info("Slot indexes ensured")
}
