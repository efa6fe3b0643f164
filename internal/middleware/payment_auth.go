package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/pixo-prints/pixo-backend/internal/services"
)

// ValidatePaymentSignature validates payment webhook signatures. The gateway
// signs the raw request body with the shared webhook secret; anything that
// doesn't verify is dropped before it reaches the handler.
func ValidatePaymentSignature(gateway services.GatewayClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("X-Razorpay-Signature")
		if signature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing webhook signature",
			})
		}

		if !gateway.VerifyWebhookSignature(c.Body(), signature) {
			log.Printf("🚨 Webhook signature verification failed from %s", c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}
