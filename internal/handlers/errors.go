package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carpool/internal/services"
	"carpool/internal/utils"
)

// respondServiceError maps service sentinel errors onto HTTP responses.
// Anything unrecognized is treated as an internal error.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Resource")
	case errors.Is(err, services.ErrNotOwner):
		utils.ForbiddenResponse(c)
	case errors.Is(err, services.ErrInvalidState):
		utils.ConflictResponse(c, "INVALID_STATE", err.Error())
	case errors.Is(err, services.ErrDuplicateRequest):
		utils.ConflictResponse(c, "DUPLICATE_REQUEST", err.Error())
	case errors.Is(err, services.ErrAlreadyPassenger):
		utils.ConflictResponse(c, "ALREADY_PASSENGER", err.Error())
	case errors.Is(err, services.ErrNoSeats):
		utils.ConflictResponse(c, "NO_SEATS_AVAILABLE", err.Error())
	case errors.Is(err, services.ErrOwnRide):
		utils.ConflictResponse(c, "OWN_RIDE", err.Error())
	case errors.Is(err, services.ErrHasAcceptedRequests):
		utils.ConflictResponse(c, "HAS_ACCEPTED_REQUESTS", err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}

// callerID pulls the authenticated user out of the request context.
// Returns false after writing the error response if it is missing.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}

	id, ok := userID.(primitive.ObjectID)
	if !ok {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	return id, true
}
