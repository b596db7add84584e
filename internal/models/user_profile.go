package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnknownDisplayName is substituted when a profile join finds nothing.
const UnknownDisplayName = "Unknown"

// UserProfile is the service's copy of the external profile store's
// display fields. It is refreshed opportunistically and is never
// authoritative.
type UserProfile struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	DisplayName     string             `json:"display_name" bson:"display_name"`
	ProfileImageURL string             `json:"profile_image_url" bson:"profile_image_url"`
	LicenseImageURL string             `json:"license_image_url" bson:"license_image_url"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}
