package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/pixo-prints/pixo-backend/internal/models"
)

// HealthHandler reports service and database health
type HealthHandler struct {
	db *gorm.DB // nil when running on the in-memory store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Info is the root endpoint with service metadata
func (h *HealthHandler) Info(c *fiber.Ctx) error {
	response := fiber.Map{
		"service": "Pixo Backend API",
		"version": "1.0.0",
		"status":  "healthy",
	}

	if h.db != nil {
		var orderCount, otpCount int64
		h.db.Model(&models.Order{}).Count(&orderCount)
		h.db.Model(&models.OTP{}).Count(&otpCount)
		response["database"] = fiber.Map{
			"orders": orderCount,
			"otps":   otpCount,
		}
	}

	return c.JSON(response)
}

// Health is the monitoring endpoint
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK

	dbHealthy := true
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.Ping() != nil {
			status = "unhealthy"
			statusCode = fiber.StatusServiceUnavailable
			dbHealthy = false
		}
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status": status,
		"services": fiber.Map{
			"database": dbHealthy,
		},
	})
}
