package interfaces

import (
	"context"

	"carpool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRequestRepository interface {
	// Create inserts a pending request. The active-request unique index
	// makes the duplicate check atomic; a collision surfaces as
	// ErrDuplicateRequest.
	Create(ctx context.Context, request *models.RideRequest) error

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error)

	// UpdateStatusIfPending transitions a pending request to the given
	// terminal status. ErrStatusChanged is returned when the request
	// exists but is no longer pending.
	UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error

	// DeletePending removes the request only while it is still pending,
	// so a cancellation racing an accept cannot erase a terminal record.
	// ErrStatusChanged is returned when the request left the pending
	// state first.
	DeletePending(ctx context.Context, id primitive.ObjectID) error

	GetActiveByRider(ctx context.Context, riderID primitive.ObjectID) ([]*models.RideRequest, error)
	GetPendingByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.RideRequest, error)
	GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error)

	CountByRideAndStatus(ctx context.Context, rideID primitive.ObjectID, status models.RequestStatus) (int64, error)

	// DeleteByRideAndStatus removes every request for the ride in the
	// given status and returns the removed records, for cascade cleanup
	// when a ride is withdrawn.
	DeleteByRideAndStatus(ctx context.Context, rideID primitive.ObjectID, status models.RequestStatus) ([]*models.RideRequest, error)
}
