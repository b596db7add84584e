package routes

import (
	"github.com/gin-gonic/gin"

	"carpool/internal/handlers"
	"carpool/internal/middleware"
)

// SetupRequestRoutes sets up routes for seat requests
func SetupRequestRoutes(r *gin.RouterGroup, requestHandler *handlers.RequestHandler, jwtSecret string) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthRequired(jwtSecret))
	{
		requests.POST("", requestHandler.SubmitRequest)
		requests.DELETE("/:id", requestHandler.CancelRequest)
		requests.POST("/:id/accept", requestHandler.AcceptRequest)
		requests.POST("/:id/reject", requestHandler.RejectRequest)

		// Rider-side and driver-side inbox views
		requests.GET("/active", requestHandler.GetActiveRequests)
		requests.GET("/pending", requestHandler.GetPendingRequests)
	}
}
