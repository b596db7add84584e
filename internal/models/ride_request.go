package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// IsActive reports whether the status still occupies the one-active-
// request-per-ride slot for a rider.
func (s RequestStatus) IsActive() bool {
	return s == RequestStatusPending || s == RequestStatusAccepted
}

type RideRequest struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RiderID primitive.ObjectID `json:"rider_id" bson:"rider_id" validate:"required"`
	RideID  primitive.ObjectID `json:"ride_id" bson:"ride_id" validate:"required"`
	// DriverID is a read-model copy of the ride's driver kept for query
	// convenience. The ride document stays the source of truth and every
	// authorization check revalidates against it.
	DriverID    primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	Status      RequestStatus      `json:"status" bson:"status" default:"pending"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
	RespondedAt *time.Time         `json:"responded_at" bson:"responded_at"`
}

// PendingRequest is a ledger entry joined with the requester's display
// data for the driver's dashboard.
type PendingRequest struct {
	Request        *RideRequest `json:"request"`
	RequesterName  string       `json:"requester_name"`
	RequesterImage string       `json:"requester_image,omitempty"`
}
