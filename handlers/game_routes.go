// handlers/game_routes.go
package handlers

import (
	"memory-match-service/middleware"
	"memory-match-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, sessionService *services.SessionService, leaderboardService *services.LeaderboardService, resolver services.TokenResolver) {
	// 🔓 Public route — the leaderboard needs no identity
	app.Get("/api/leaderboard", leaderboardService.GetLeaderboard)

	// 🔐 Secured routes — every game action is scoped to the resolved user
	secured := app.Group("/api/game", middleware.AuthMiddleware(resolver))

	secured.Post("/start", sessionService.Start)
	secured.Post("/click", sessionService.Click)
	secured.Post("/resolve", sessionService.Resolve)
	secured.Post("/save", sessionService.Save)
	secured.Post("/giveup", sessionService.GiveUp)
	secured.Post("/reset", sessionService.Reset)
	secured.Post("/load", sessionService.Load)
}
