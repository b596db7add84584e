package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string
type NotificationStatus string

const (
	NotificationTypeRideRequest     NotificationType = "ride_request"
	NotificationTypeRequestAccepted NotificationType = "request_accepted"
	NotificationTypeRequestRejected NotificationType = "request_rejected"
	NotificationTypeRideCancelled   NotificationType = "ride_cancelled"

	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

type Notification struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	RecipientID primitive.ObjectID  `json:"recipient_id" bson:"recipient_id" validate:"required"`
	SenderID    *primitive.ObjectID `json:"sender_id,omitempty" bson:"sender_id"`
	Type        NotificationType    `json:"type" bson:"type" validate:"required"`
	Message     string              `json:"message" bson:"message" validate:"required"`
	Status      NotificationStatus  `json:"status" bson:"status" default:"unread"`
	ReadAt      *time.Time          `json:"read_at" bson:"read_at"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
}
