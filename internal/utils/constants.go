package utils

import "time"

// Application Constants
const (
	AppName    = "Carpool"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// Ride Constants
	MaxSeatsPerRide   = 8
	MaxRouteNameLen   = 120
	MaxPaymentNameLen = 40

	// Notification
	UnreadCountCacheTTL = 5 * time.Minute

	// Profile join
	ProfileCacheTTL = 30 * time.Minute
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common error messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Authentication required"
	ErrForbidden        = "Access denied"
)
