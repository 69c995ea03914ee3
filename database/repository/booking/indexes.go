// File: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"barberbook/utils"
)

// EnsureBookingIndexes sets up the indexes booking lookups depend on.
func EnsureBookingIndexes(coll *mongo.Collection) {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "slotId", Value: 1}},
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Error("Failed to create booking indexes", zap.Error(err))
		return
	}
	logger.Info("Booking indexes ensured")
}
