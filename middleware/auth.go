// memory-match-service/middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"memory-match-service/services"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware resolves the caller's bearer token to a user id via
// the auth provider and attaches it to the request context. Every game
// and profile route sits behind this; only the leaderboard is public.
func AuthMiddleware(resolver services.TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		// Parse "Bearer <token>"
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			// no "Bearer " prefix — accept the raw value
			token = authHeader
		}

		user, err := resolver.ResolveToken(c.Context(), token)
		if err != nil {
			log.Printf("🚫 [AUTH] Token rejected for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals("user_id", user.ID)
		return c.Next()
	}
}
