// File: database/repository/session/queries.go
package sessionRepo

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

func (r *mongoSessionRepo) GetActiveByToken(ctx context.Context, hashedToken string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"sessionToken": hashedToken, "isActive": true}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return &session, nil
}

// ListActiveByUser returns the user's active sessions, most recently used
// first.
func (r *mongoSessionRepo) ListActiveByUser(ctx context.Context, userID string) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lastAccessed", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID, "isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}
