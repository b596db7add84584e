package services

import "errors"

var (
	// ErrValidation is returned when request input is malformed, such as
	// a ride offered with zero seats or a negative price.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced ride, request or
	// notification does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner is returned when the caller does not own the resource
	// the operation targets.
	ErrNotOwner = errors.New("caller is not the resource owner")

	// ErrInvalidState is returned when an operation is invalid for the
	// request's current lifecycle state, such as accepting a request
	// that was already rejected.
	ErrInvalidState = errors.New("operation invalid for current state")

	// ErrDuplicateRequest is returned when the rider already has a
	// pending or accepted request for the ride.
	ErrDuplicateRequest = errors.New("an active request for this ride already exists")

	// ErrAlreadyPassenger is returned when the rider already occupies a
	// seat on the ride.
	ErrAlreadyPassenger = errors.New("rider already holds a seat on this ride")

	// ErrNoSeats is returned when the ride has no seats left.
	ErrNoSeats = errors.New("ride has no available seats")

	// ErrOwnRide is returned when a driver submits a request for their
	// own ride.
	ErrOwnRide = errors.New("drivers cannot request their own ride")

	// ErrHasAcceptedRequests is returned when a ride deletion is blocked
	// by outstanding accepted requests.
	ErrHasAcceptedRequests = errors.New("ride still has accepted requests")
)
