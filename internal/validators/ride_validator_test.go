package validators

import (
	"testing"
	"time"
)

func TestCreateRideRequestValidation(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)

	testCases := []struct {
		name    string
		request CreateRideRequest
		wantErr bool
	}{
		{
			name: "valid",
			request: CreateRideRequest{
				Origin:      "Tagum City",
				Destination: "Davao City",
				DepartureAt: future,
				TotalSeats:  3,
			},
			wantErr: false,
		},
		{
			name: "missing origin",
			request: CreateRideRequest{
				Destination: "Davao City",
				DepartureAt: future,
				TotalSeats:  3,
			},
			wantErr: true,
		},
		{
			name: "departure in the past",
			request: CreateRideRequest{
				Origin:      "Tagum City",
				Destination: "Davao City",
				DepartureAt: time.Now().Add(-time.Hour),
				TotalSeats:  3,
			},
			wantErr: true,
		},
		{
			name: "too many seats",
			request: CreateRideRequest{
				Origin:      "Tagum City",
				Destination: "Davao City",
				DepartureAt: future,
				TotalSeats:  9,
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateStruct(&tc.request)
			if tc.wantErr && len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
			if !tc.wantErr && len(errs) > 0 {
				t.Fatalf("expected no errors, got: %v", errs)
			}
		})
	}
}

func TestSubmitRequestRequestValidation(t *testing.T) {
	valid := SubmitRequestRequest{RideID: "65f0a1b2c3d4e5f601234567"}
	if errs := ValidateStruct(&valid); len(errs) > 0 {
		t.Fatalf("expected no errors, got: %v", errs)
	}

	malformed := SubmitRequestRequest{RideID: "not-an-object-id"}
	if errs := ValidateStruct(&malformed); len(errs) == 0 {
		t.Fatal("expected validation errors for malformed ride id")
	}
}
