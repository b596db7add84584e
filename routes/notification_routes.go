package routes

import (
	"github.com/gin-gonic/gin"

	"carpool/internal/handlers"
	"carpool/internal/middleware"
)

// SetupNotificationRoutes sets up routes for the notification inbox
func SetupNotificationRoutes(r *gin.RouterGroup, notificationHandler *handlers.NotificationHandler, jwtSecret string) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthRequired(jwtSecret))
	{
		notifications.GET("", notificationHandler.ListNotifications)
		notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
	}
}
