// File: database/repository/session/crud.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"barberbook/models"
)

func (r *mongoSessionRepo) Insert(ctx context.Context, session *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *mongoSessionRepo) Touch(ctx context.Context, hashedToken string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"sessionToken": hashedToken, "isActive": true}
	update := bson.M{"$set": bson.M{"lastAccessed": at}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepo) Deactivate(ctx context.Context, hashedToken string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"sessionToken": hashedToken, "isActive": true}
	update := bson.M{"$set": bson.M{"isActive": false}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepo) DeactivateAllForUser(ctx context.Context, userID, exceptToken string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "isActive": true}
	if exceptToken != "" {
		filter["sessionToken"] = bson.M{"$ne": exceptToken}
	}
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isActive": false}})
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate user sessions: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoSessionRepo) DeactivateIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bson.M{"$in": ids}}
	if _, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isActive": false}}); err != nil {
		return fmt.Errorf("failed to deactivate sessions: %w", err)
	}
	return nil
}

func (r *mongoSessionRepo) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Active sessions are never purged here, no matter how idle: revocation
	// happens only through explicit deactivation.
	filter := bson.M{
		"isActive":     false,
		"lastAccessed": bson.M{"$lt": cutoff},
	}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale sessions: %w", err)
	}
	return res.DeletedCount, nil
}
