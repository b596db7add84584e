package interfaces

import (
	"context"

	"carpool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error)

	// GetByUserIDs fetches all requested profiles in one round trip.
	// Missing users are simply absent from the result map.
	GetByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.UserProfile, error)

	Upsert(ctx context.Context, profile *models.UserProfile) error
}
