package routes

import (
	"github.com/gin-gonic/gin"

	"carpool/internal/handlers"
	"carpool/internal/middleware"
)

// SetupProfileRoutes sets up routes for user display profiles
func SetupProfileRoutes(r *gin.RouterGroup, profileHandler *handlers.ProfileHandler, jwtSecret string) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthRequired(jwtSecret))
	{
		profiles.GET("/:id", profileHandler.GetProfile)
		profiles.PUT("/me", profileHandler.UpsertProfile)
	}
}
