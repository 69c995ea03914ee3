// File: database/repository/notification/interface.go
package notificationRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"barberbook/database"
	"barberbook/models"
)

// NotificationRepository persists notification records and their read state.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	SetPushCounts(ctx context.Context, id string, success, failure int) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	CountSince(ctx context.Context, userID string, since time.Time) (int64, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a NotificationRepository backed by the
// notifications collection.
func NewMongoNotificationRepo() NotificationRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("notifications")
	return &mongoNotificationRepo{coll: coll}
}
