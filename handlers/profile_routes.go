// handlers/profile_routes.go
package handlers

import (
	"memory-match-service/middleware"
	"memory-match-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService, resolver services.TokenResolver) {
	secured := app.Group("/api/profile", middleware.AuthMiddleware(resolver))

	secured.Get("/", profileService.GetProfile)
	secured.Post("/images", profileService.UploadImage)
}
