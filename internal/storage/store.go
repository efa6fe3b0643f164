package storage

import (
	"github.com/pixo-prints/pixo-backend/internal/models"
)

// Store defines the interface for storage operations. Both the Postgres and
// the in-memory implementations enforce the same guarantees: unique order
// identifiers and atomic conditional updates for status transitions and OTP
// consumption.
type Store interface {
	// Order operations
	CreateOrder(order *models.Order) (*models.Order, error)
	GetOrder(orderID string) (*models.Order, error)
	GetOrderByGatewayOrderID(gatewayOrderID string) (*models.Order, error)
	GetOrdersByStatus(status string) ([]*models.Order, error)
	GetAllOrders() ([]*models.Order, error)

	// TransitionOrder flips an order's status from fromStatus to toStatus as
	// a compare-and-set: it applies only while the current status still
	// equals fromStatus, otherwise it returns ErrConflict and leaves the
	// record untouched. Non-empty paymentID/signature/reason values are
	// written alongside the new status.
	TransitionOrder(orderID, fromStatus, toStatus, paymentID, signature, reason string) (*models.Order, error)

	// OTP operations
	CreateOTP(otp *models.OTP) (*models.OTP, error) // supersedes prior unverified codes for the same email
	GetActiveOTP(email string) (*models.OTP, error) // newest unverified code, expired or not
	MarkOTPVerified(id uint) error                  // single-use consume; ErrAlreadyUsed if already spent
	DeleteExpiredOTPs() (int64, error)
}
