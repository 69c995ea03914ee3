// File: database/repository/session/indexes.go
package sessionRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"barberbook/utils"
)

// EnsureSessionIndexes sets up the indexes session validation depends on.
func EnsureSessionIndexes(coll *mongo.Collection) {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionToken", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "lastAccessed", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "lastAccessed", Value: 1}},
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Error("Failed to create session indexes", zap.Error(err))
		return
	}
	logger.Info("Session indexes ensured")
}
