// File: database/repository/user/interface.go
package userRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"barberbook/database"
	"barberbook/models"
)

// UserRepository persists customer and barber accounts.
type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetNotificationsEnabled(ctx context.Context, id string, enabled bool) error
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo returns a UserRepository backed by the users collection.
func NewMongoUserRepo() UserRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("users")
	return &mongoUserRepo{coll: coll}
}
