package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carpool/internal/models"
	"carpool/internal/services"
	"carpool/internal/utils"
	"carpool/internal/validators"
)

type RideHandler struct {
	rideService services.RideService
}

func NewRideHandler(rideService services.RideService) *RideHandler {
	return &RideHandler{
		rideService: rideService,
	}
}

// CreateRide publishes a new ride offer owned by the caller
func (h *RideHandler) CreateRide(c *gin.Context) {
	var request validators.CreateRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if validationErrors := validators.ValidateStruct(&request); len(validationErrors) > 0 {
		details := make(map[string]string, len(validationErrors))
		for _, ve := range validationErrors {
			details[ve.Field] = ve.Message
		}
		utils.ValidationErrorResponse(c, details)
		return
	}

	driverID, ok := callerID(c)
	if !ok {
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), driverID, &services.CreateRideInput{
		Origin:        request.Origin,
		Destination:   request.Destination,
		DepartureAt:   request.DepartureAt,
		ArrivalAt:     request.ArrivalAt,
		Price:         request.Price,
		TotalSeats:    request.TotalSeats,
		PaymentMethod: request.PaymentMethod,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Ride created successfully", ride)
}

// GetRide retrieves a single ride by ID
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ride ID")
		return
	}

	ride, err := h.rideService.GetRide(c.Request.Context(), rideID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride retrieved successfully", ride)
}

// ListRides lists upcoming rides, optionally filtered by destination
// or driver
func (h *RideHandler) ListRides(c *gin.Context) {
	filter := &models.RideFilter{
		Destination: c.Query("destination"),
	}
	if driverIDStr := c.Query("driver_id"); driverIDStr != "" {
		driverID, err := primitive.ObjectIDFromHex(driverIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid driver ID")
			return
		}
		filter.DriverID = driverID
	}

	params := utils.GetPaginationParams(c)

	rides, total, err := h.rideService.ListRides(c.Request.Context(), filter, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Rides retrieved successfully", rides, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(rides),
	})
}

// DeleteRide removes a ride the caller owns. Pending requests for the
// ride are withdrawn and their riders notified.
func (h *RideHandler) DeleteRide(c *gin.Context) {
	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ride ID")
		return
	}

	driverID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.rideService.DeleteRide(c.Request.Context(), rideID, driverID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
