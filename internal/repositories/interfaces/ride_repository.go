package interfaces

import (
	"context"

	"carpool/internal/models"
	"carpool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)

	// List returns a point-in-time snapshot of rides matching the filter,
	// soonest departure first.
	List(ctx context.Context, filter *models.RideFilter, params *utils.PaginationParams) ([]*models.Ride, int64, error)

	Delete(ctx context.Context, id primitive.ObjectID) error

	// ReserveSeat atomically decrements available_seats and appends the
	// rider to passengers. It fails with ErrNoSeats when the ride is full
	// and ErrAlreadyPassenger when the rider already holds a seat; the
	// check and the mutation are a single conditional write.
	ReserveSeat(ctx context.Context, rideID, riderID primitive.ObjectID) error
}
