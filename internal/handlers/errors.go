package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pixo-prints/pixo-backend/internal/models"
)

// respondError maps the service error taxonomy to HTTP responses. Auth-ish
// failures (wrong code, expired code, bad signature) deliberately collapse to
// generic messages so callers can't probe the verification logic.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrAlreadyUsed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Conflict",
		})
	case errors.Is(err, models.ErrSignatureMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"status":  models.OrderStatusFailed,
			"error":   "Payment verification failed",
		})
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrExpired), errors.Is(err, models.ErrMismatch):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	case errors.Is(err, models.ErrGatewayUnavailable), errors.Is(err, models.ErrGatewayRejected):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Payment gateway unavailable, please retry",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
