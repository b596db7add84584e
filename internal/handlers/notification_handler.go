package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carpool/internal/services"
	"carpool/internal/utils"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	recipientID, ok := callerID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	notifications, total, err := h.notificationService.List(c.Request.Context(), recipientID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Notifications retrieved successfully", notifications, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(notifications),
	})
}

// GetUnreadCount returns how many of the caller's notifications are
// still unread
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	recipientID, ok := callerID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), recipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Unread count retrieved successfully", gin.H{"unread_count": count})
}

// MarkRead marks one of the caller's notifications as read. Marking an
// already-read notification succeeds without changes.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID")
		return
	}

	recipientID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), notificationID, recipientID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", nil)
}
