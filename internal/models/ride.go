package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Ride struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	DriverID       primitive.ObjectID   `json:"driver_id" bson:"driver_id" validate:"required"`
	Origin         string               `json:"origin" bson:"origin" validate:"required"`
	Destination    string               `json:"destination" bson:"destination" validate:"required"`
	DepartureAt    time.Time            `json:"departure_at" bson:"departure_at" validate:"required"`
	ArrivalAt      *time.Time           `json:"arrival_at" bson:"arrival_at"`
	Price          int64                `json:"price" bson:"price"` // minor currency units
	TotalSeats     int                  `json:"total_seats" bson:"total_seats" validate:"required,min=1"`
	AvailableSeats int                  `json:"available_seats" bson:"available_seats"`
	Passengers     []primitive.ObjectID `json:"passengers" bson:"passengers"`
	PaymentMethod  string               `json:"payment_method" bson:"payment_method"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// HasPassenger reports whether userID already occupies a seat.
func (r *Ride) HasPassenger(userID primitive.ObjectID) bool {
	for _, p := range r.Passengers {
		if p == userID {
			return true
		}
	}
	return false
}

func (r *Ride) SeatsTaken() int {
	return r.TotalSeats - r.AvailableSeats
}

// RideFilter narrows catalog listings. Destination is matched as a
// case-insensitive substring; zero-value fields are ignored.
type RideFilter struct {
	Destination string             `json:"destination" form:"destination"`
	DriverID    primitive.ObjectID `json:"driver_id" form:"-"`
	After       time.Time          `json:"after" form:"-"`
}
