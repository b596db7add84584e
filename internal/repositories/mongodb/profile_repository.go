package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type profileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) interfaces.ProfileRepository {
	return &profileRepository{
		collection: db.Collection("user_profiles"),
	}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.UserProfile, error) {
	profiles := make(map[primitive.ObjectID]*models.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var profile models.UserProfile
		if err := cursor.Decode(&profile); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		profiles[profile.UserID] = &profile
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("profile cursor failed: %w", err)
	}
	return profiles, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now()
	}

	update := bson.M{"$set": bson.M{
		"display_name":      profile.DisplayName,
		"profile_image_url": profile.ProfileImageURL,
		"license_image_url": profile.LicenseImageURL,
		"updated_at":        profile.UpdatedAt,
	}}

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"user_id": profile.UserID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
