package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pixo-prints/pixo-backend/internal/models"
	"github.com/pixo-prints/pixo-backend/internal/services"
)

// OrderHandler handles checkout and order reads
type OrderHandler struct {
	orders *services.OrderService
	keyID  string
}

// NewOrderHandler creates a new order handler. keyID is the gateway's public
// key id, returned to the client so it can open the checkout widget.
func NewOrderHandler(orders *services.OrderService, keyID string) *OrderHandler {
	return &OrderHandler{orders: orders, keyID: keyID}
}

// CreateOrder creates a pending order and its gateway counterpart
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req models.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	order, err := h.orders.Create(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":          true,
		"order_id":         order.OrderID,
		"gateway_order_id": order.GatewayOrderID,
		"amount":           order.Amount,
		"currency":         order.Currency,
		"key_id":           h.keyID,
	})
}

// GetOrder returns a single order by id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.orders.Get(c.Params("orderID"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}
