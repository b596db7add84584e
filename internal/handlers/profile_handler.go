package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carpool/internal/models"
	"carpool/internal/services"
	"carpool/internal/utils"
	"carpool/internal/validators"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile retrieves a user's display profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", profile)
}

// UpsertProfile creates or replaces the caller's display profile
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	var request validators.UpsertProfileRequest
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

	userID, ok := callerID(c)
	if !ok {
		return
	}

	profile := &models.UserProfile{
		UserID:          userID,
		DisplayName:     request.DisplayName,
		ProfileImageURL: request.ProfileImageURL,
		LicenseImageURL: request.LicenseImageURL,
	}

	if err := h.profileService.Upsert(c.Request.Context(), profile); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile saved successfully", profile)
}
