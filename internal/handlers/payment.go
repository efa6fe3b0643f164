package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pixo-prints/pixo-backend/internal/services"
)

// PaymentHandler handles client payment confirmations and gateway webhooks
type PaymentHandler struct {
	orders   *services.OrderService
	webhooks *services.PaymentWebhookService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(orders *services.OrderService, webhooks *services.PaymentWebhookService) *PaymentHandler {
	return &PaymentHandler{orders: orders, webhooks: webhooks}
}

// ConfirmPayment handles the client-reported completion. The redirect is only
// a notification; the signature check inside the order service is what
// authorizes the transition.
func (h *PaymentHandler) ConfirmPayment(c *fiber.Ctx) error {
	var req struct {
		GatewayOrderID   string `json:"gateway_order_id"`
		GatewayPaymentID string `json:"gateway_payment_id"`
		Signature        string `json:"signature"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "gateway_order_id, gateway_payment_id and signature are required",
		})
	}

	order, err := h.orders.ConfirmPayment(req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  order.Status,
	})
}

// HandleWebhook processes gateway webhook deliveries. The body signature has
// already been checked by middleware in production.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	if err := h.webhooks.Process(c.Body()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"received": true,
	})
}
