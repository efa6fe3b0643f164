package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pixo-prints/pixo-backend/internal/models"
)

// MemoryStore holds all data in memory. Used for tests and local development.
type MemoryStore struct {
	orders        map[string]*models.Order // keyed by OrderID
	gatewayOrders map[string]string        // GatewayOrderID -> OrderID
	otps          map[uint]*models.OTP

	orderMu sync.RWMutex
	otpMu   sync.Mutex

	otpCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:        make(map[string]*models.Order),
		gatewayOrders: make(map[string]string),
		otps:          make(map[uint]*models.OTP),
	}
}

// Order operations

func (m *MemoryStore) CreateOrder(order *models.Order) (*models.Order, error) {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	if _, exists := m.orders[order.OrderID]; exists {
		return nil, fmt.Errorf("order %s already exists: %w", order.OrderID, models.ErrConflict)
	}
	if _, exists := m.gatewayOrders[order.GatewayOrderID]; exists {
		return nil, fmt.Errorf("gateway order %s already exists: %w", order.GatewayOrderID, models.ErrConflict)
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	m.orders[order.OrderID] = order
	m.gatewayOrders[order.GatewayOrderID] = order.OrderID

	cp := cloneOrder(order)
	return &cp, nil
}

func (m *MemoryStore) GetOrder(orderID string) (*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	order, exists := m.orders[orderID]
	if !exists {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}
	cp := cloneOrder(order)
	return &cp, nil
}

func (m *MemoryStore) GetOrderByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	orderID, exists := m.gatewayOrders[gatewayOrderID]
	if !exists {
		return nil, fmt.Errorf("gateway order %s: %w", gatewayOrderID, models.ErrNotFound)
	}
	cp := cloneOrder(m.orders[orderID])
	return &cp, nil
}

func (m *MemoryStore) GetOrdersByStatus(status string) ([]*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	var orders []*models.Order
	for _, order := range m.orders {
		if order.Status == status {
			cp := cloneOrder(order)
			orders = append(orders, &cp)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (m *MemoryStore) GetAllOrders() ([]*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	orders := make([]*models.Order, 0, len(m.orders))
	for _, order := range m.orders {
		cp := cloneOrder(order)
		orders = append(orders, &cp)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (m *MemoryStore) TransitionOrder(orderID, fromStatus, toStatus, paymentID, signature, reason string) (*models.Order, error) {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	order, exists := m.orders[orderID]
	if !exists {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}
	if order.Status != fromStatus {
		return nil, fmt.Errorf("order %s is %s, not %s: %w", orderID, order.Status, fromStatus, models.ErrConflict)
	}

	order.Status = toStatus
	order.UpdatedAt = time.Now()
	if paymentID != "" {
		order.GatewayPaymentID = paymentID
	}
	if signature != "" {
		order.GatewaySignature = signature
	}
	if reason != "" {
		order.FailureReason = reason
	}

	cp := cloneOrder(order)
	return &cp, nil
}

// OTP operations

func (m *MemoryStore) CreateOTP(otp *models.OTP) (*models.OTP, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	// Supersede: drop any unverified codes for the same subject.
	for id, existing := range m.otps {
		if existing.Email == otp.Email && !existing.Verified {
			delete(m.otps, id)
		}
	}

	m.otpCounter++
	otp.ID = m.otpCounter
	otp.CreatedAt = time.Now()
	otp.UpdatedAt = otp.CreatedAt

	stored := *otp
	m.otps[otp.ID] = &stored
	return otp, nil
}

func (m *MemoryStore) GetActiveOTP(email string) (*models.OTP, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	var latest *models.OTP
	for _, otp := range m.otps {
		if otp.Email != email || otp.Verified {
			continue
		}
		if latest == nil || otp.CreatedAt.After(latest.CreatedAt) || (otp.CreatedAt.Equal(latest.CreatedAt) && otp.ID > latest.ID) {
			latest = otp
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no active code for %s: %w", email, models.ErrNotFound)
	}
	cp := *latest
	return &cp, nil
}

func (m *MemoryStore) MarkOTPVerified(id uint) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	otp, exists := m.otps[id]
	if !exists {
		return fmt.Errorf("otp %d: %w", id, models.ErrNotFound)
	}
	if otp.Verified {
		return fmt.Errorf("otp %d: %w", id, models.ErrAlreadyUsed)
	}
	otp.Verified = true
	otp.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) DeleteExpiredOTPs() (int64, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	now := time.Now()
	var removed int64
	for id, otp := range m.otps {
		if now.After(otp.ExpiresAt) {
			delete(m.otps, id)
			removed++
		}
	}
	return removed, nil
}

func cloneOrder(order *models.Order) models.Order {
	cp := *order
	cp.Items = make([]models.OrderItem, len(order.Items))
	copy(cp.Items, order.Items)
	return cp
}

func sortOrdersNewestFirst(orders []*models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
