package routes

import (
	"github.com/gin-gonic/gin"

	"carpool/internal/handlers"
	"carpool/internal/middleware"
)

// SetupRideRoutes sets up routes for the ride catalog
func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler, jwtSecret string) {
	rides := r.Group("/rides")
	rides.Use(middleware.AuthRequired(jwtSecret))
	{
		rides.POST("", rideHandler.CreateRide)
		rides.GET("", rideHandler.ListRides)
		rides.GET("/:id", rideHandler.GetRide)
		rides.DELETE("/:id", rideHandler.DeleteRide)
	}
}
