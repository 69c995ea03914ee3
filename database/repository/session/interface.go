// File: database/repository/session/interface.go
package sessionRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"barberbook/database"
	"barberbook/models"
)

// SessionRepository persists opaque-token sessions.
type SessionRepository interface {
	Insert(ctx context.Context, session *models.Session) error
	GetActiveByToken(ctx context.Context, hashedToken string) (*models.Session, error)
	Touch(ctx context.Context, hashedToken string, at time.Time) error
	Deactivate(ctx context.Context, hashedToken string) error
	DeactivateAllForUser(ctx context.Context, userID, exceptToken string) (int64, error)
	ListActiveByUser(ctx context.Context, userID string) ([]models.Session, error)
	DeactivateIDs(ctx context.Context, ids []string) error
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type mongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo returns a SessionRepository backed by the sessions
// collection.
func NewMongoSessionRepo() SessionRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("sessions")
	return &mongoSessionRepo{coll: coll}
}
