package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carpool/internal/models"
	"carpool/internal/services"
	"carpool/internal/utils"
	"carpool/internal/validators"
)

type RequestHandler struct {
	requestService services.RequestService
}

func NewRequestHandler(requestService services.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// SubmitRequest creates a pending seat request on a ride
func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	var request validators.SubmitRequestRequest
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

	riderID, ok := callerID(c)
	if !ok {
		return
	}

	rideID, err := primitive.ObjectIDFromHex(request.RideID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ride ID")
		return
	}

	rideRequest, err := h.requestService.SubmitRequest(c.Request.Context(), riderID, rideID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Request submitted successfully", rideRequest)
}

// AcceptRequest grants the requested seat. Only the ride's driver may
// call this, and only while the request is pending.
func (h *RequestHandler) AcceptRequest(c *gin.Context) {
	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	driverID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.requestService.AcceptRequest(c.Request.Context(), requestID, driverID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Request accepted successfully", nil)
}

// RejectRequest declines a pending request without touching seats
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	driverID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.requestService.RejectRequest(c.Request.Context(), requestID, driverID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Request rejected successfully", nil)
}

// CancelRequest lets a rider withdraw their own pending request
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	riderID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.requestService.CancelRequest(c.Request.Context(), requestID, riderID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// GetActiveRequests returns the caller's pending and accepted
// requests, keyed by ride ID so clients can badge ride listings.
func (h *RequestHandler) GetActiveRequests(c *gin.Context) {
	riderID, ok := callerID(c)
	if !ok {
		return
	}

	active, err := h.requestService.ActiveRequestsForRider(c.Request.Context(), riderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	byRide := make(map[string]*models.RideRequest, len(active))
	for rideID, req := range active {
		byRide[rideID.Hex()] = req
	}

	utils.SuccessResponse(c, "Active requests retrieved successfully", byRide)
}

// GetPendingRequests returns pending requests across the caller's
// rides, with requester display data attached
func (h *RequestHandler) GetPendingRequests(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	pending, err := h.requestService.PendingRequestsForDriver(c.Request.Context(), driverID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Pending requests retrieved successfully", pending)
}
