package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pixo-prints/pixo-backend/internal/services"
)

// AdminHandler handles the two-factor admin entry and privileged operations
type AdminHandler struct {
	auth   *services.AdminAuthService
	orders *services.OrderService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(auth *services.AdminAuthService, orders *services.OrderService) *AdminHandler {
	return &AdminHandler{auth: auth, orders: orders}
}

// Login checks the admin password and triggers OTP delivery
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.auth.Login(req.Password); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"otp_issued": true,
	})
}

// Verify validates the submitted OTP and returns a session token
func (h *AdminHandler) Verify(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	token, err := h.auth.Verify(req.Code)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"session_token": token,
	})
}

// RefundOrder flips a paid order to refunded. The monetary refund runs on the
// gateway side; this records the decision.
func (h *AdminHandler) RefundOrder(c *fiber.Ctx) error {
	order, err := h.orders.Refund(c.Params("orderID"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// ListOrders returns orders for the admin dashboard, optionally filtered by
// status
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
		"count":   len(orders),
	})
}
