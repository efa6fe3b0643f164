package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixo-prints/pixo-backend/internal/models"
)

// DatabaseStore implements Store on top of GORM/Postgres. Uniqueness lives in
// the schema (unique indexes on order_id and gateway_order_id) and transitions
// are conditional UPDATEs, so concurrent writers race deterministically.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM handle.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Order operations

func (s *DatabaseStore) CreateOrder(order *models.Order) (*models.Order, error) {
	if err := s.db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("order %s already exists: %w", order.OrderID, models.ErrConflict)
		}
		return nil, fmt.Errorf("create order: %v", err)
	}
	return order, nil
}

func (s *DatabaseStore) GetOrder(orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get order: %v", err)
	}
	return &order, nil
}

func (s *DatabaseStore) GetOrderByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("gateway_order_id = ?", gatewayOrderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("gateway order %s: %w", gatewayOrderID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get order by gateway id: %v", err)
	}
	return &order, nil
}

func (s *DatabaseStore) GetOrdersByStatus(status string) ([]*models.Order, error) {
	var orders []*models.Order
	err := s.db.Preload("Items").Where("status = ?", status).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %v", err)
	}
	return orders, nil
}

func (s *DatabaseStore) GetAllOrders() ([]*models.Order, error) {
	var orders []*models.Order
	err := s.db.Preload("Items").Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %v", err)
	}
	return orders, nil
}

func (s *DatabaseStore) TransitionOrder(orderID, fromStatus, toStatus, paymentID, signature, reason string) (*models.Order, error) {
	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	if paymentID != "" {
		updates["gateway_payment_id"] = paymentID
	}
	if signature != "" {
		updates["gateway_signature"] = signature
	}
	if reason != "" {
		updates["failure_reason"] = reason
	}

	// Compare-and-set: the WHERE clause pins the expected current status, so
	// of two racing transitions only one sees RowsAffected == 1.
	res := s.db.Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("transition order: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing order from a lost race.
		var count int64
		if err := s.db.Model(&models.Order{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("transition order: %v", err)
		}
		if count == 0 {
			return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("order %s is no longer %s: %w", orderID, fromStatus, models.ErrConflict)
	}

	return s.GetOrder(orderID)
}

// OTP operations

func (s *DatabaseStore) CreateOTP(otp *models.OTP) (*models.OTP, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Supersede: a fresh issuance invalidates prior unconsumed codes.
		if err := tx.Where("email = ? AND verified = ?", otp.Email, false).
			Delete(&models.OTP{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create otp: %v", err)
	}
	return otp, nil
}

func (s *DatabaseStore) GetActiveOTP(email string) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.Where("email = ? AND verified = ?", email, false).
		Order("created_at DESC").First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no active code for %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get active otp: %v", err)
	}
	return &otp, nil
}

func (s *DatabaseStore) MarkOTPVerified(id uint) error {
	// Conditional update keeps the code single-use under concurrent validates.
	res := s.db.Model(&models.OTP{}).
		Where("id = ? AND verified = ?", id, false).
		Update("verified", true)
	if res.Error != nil {
		return fmt.Errorf("mark otp verified: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.OTP{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("mark otp verified: %v", err)
		}
		if count == 0 {
			return fmt.Errorf("otp %d: %w", id, models.ErrNotFound)
		}
		return fmt.Errorf("otp %d: %w", id, models.ErrAlreadyUsed)
	}
	return nil
}

func (s *DatabaseStore) DeleteExpiredOTPs() (int64, error) {
	res := s.db.Unscoped().Where("expires_at < ?", time.Now()).Delete(&models.OTP{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired otps: %v", res.Error)
	}
	return res.RowsAffected, nil
}
