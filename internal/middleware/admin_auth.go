package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pixo-prints/pixo-backend/internal/services"
)

// RequireAdmin verifies the Bearer session token on every privileged call.
// Session validity is server-checked each time; there is no client-asserted
// state.
func RequireAdmin(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		claims, err := sessions.VerifyAdminToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("admin_subject", claims.Subject)
		return c.Next()
	}
}
