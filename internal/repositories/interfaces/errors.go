// Package interfaces declares the persistence contracts consumed by the
// service layer, together with the sentinel errors repositories use to
// classify conditional-write outcomes. Services translate these into
// their own error vocabulary; handlers never see them directly.
package interfaces

import "errors"

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrNoSeats is returned when a seat reservation finds the ride full.
	ErrNoSeats = errors.New("no seats available")

	// ErrAlreadyPassenger is returned when a seat reservation finds the
	// rider already aboard.
	ErrAlreadyPassenger = errors.New("rider already a passenger")

	// ErrDuplicateRequest is returned when an insert collides with the
	// active-request unique index for the same (rider, ride) pair.
	ErrDuplicateRequest = errors.New("active request already exists")

	// ErrStatusChanged is returned when a compare-and-set on a request's
	// status finds it no longer in the expected state.
	ErrStatusChanged = errors.New("request status changed")
)
