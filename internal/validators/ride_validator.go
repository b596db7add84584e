package validators

import (
	"time"
)

type CreateRideRequest struct {
	Origin        string     `json:"origin" validate:"required,min=2,max=255"`
	Destination   string     `json:"destination" validate:"required,min=2,max=255"`
	DepartureAt   time.Time  `json:"departure_at" validate:"required,future_date"`
	ArrivalAt     *time.Time `json:"arrival_at" validate:"omitempty"`
	Price         int64      `json:"price" validate:"min=0"`
	TotalSeats    int        `json:"total_seats" validate:"required,min=1,max=8"`
	PaymentMethod string     `json:"payment_method" validate:"omitempty,max=50"`
}

type SubmitRequestRequest struct {
	RideID string `json:"ride_id" validate:"required,object_id"`
}

type UpsertProfileRequest struct {
	DisplayName     string `json:"display_name" validate:"required,min=1,max=100"`
	ProfileImageURL string `json:"profile_image_url" validate:"omitempty,max=500"`
	LicenseImageURL string `json:"license_image_url" validate:"omitempty,max=500"`
}
