package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pixo-prints/pixo-backend/internal/models"
	"github.com/pixo-prints/pixo-backend/internal/storage"
	"github.com/pixo-prints/pixo-backend/internal/utils"
)

// OrderService owns the order state machine:
//
//	pending --(verified payment)--> paid
//	pending --(verification failure / gateway failure)--> failed
//	paid    --(admin refund)--> refunded
//
// failed and refunded are terminal. Every transition goes through the store's
// compare-and-set, so retried webhooks and racing confirms resolve
// deterministically.
type OrderService struct {
	store           storage.Store
	gateway         GatewayClient
	notifier        Notifier
	defaultCurrency string
}

// NewOrderService creates a new order service.
func NewOrderService(store storage.Store, gateway GatewayClient, notifier Notifier, defaultCurrency string) *OrderService {
	return &OrderService{
		store:           store,
		gateway:         gateway,
		notifier:        notifier,
		defaultCurrency: defaultCurrency,
	}
}

// Create validates the checkout payload, registers a matching order on the
// payment gateway and persists the local order in pending. Creation is
// all-or-nothing: if the gateway call fails, nothing is stored.
func (s *OrderService) Create(req *models.OrderRequest) (*models.Order, error) {
	amount, err := validateOrderRequest(req)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	orderID := utils.GenerateSecureID("ORD")

	// Remote order first; a gateway failure must not leave a local record.
	gatewayOrderID, err := s.gateway.CreateOrder(amount, currency, orderID)
	if err != nil {
		return nil, fmt.Errorf("register gateway order: %w", err)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductSlug:  item.ProductSlug,
			ProductTitle: item.ProductTitle,
			ProductType:  item.ProductType,
			Size:         item.Size,
			Quantity:     item.Quantity,
			Price:        item.Price,
		})
	}

	order := &models.Order{
		OrderID:        orderID,
		GatewayOrderID: gatewayOrderID,
		Customer:       req.Customer,
		Items:          items,
		Amount:         amount,
		Currency:       currency,
		Status:         models.OrderStatusPending,
	}
	order.Customer.Email = NormalizeEmail(order.Customer.Email)
	if order.Customer.Address.Country == "" {
		order.Customer.Address.Country = "India"
	}

	created, err := s.store.CreateOrder(order)
	if err != nil {
		// The remote order stays orphaned; it expires on the gateway side.
		log.Printf("Failed to persist order %s after gateway registration %s: %v", orderID, gatewayOrderID, err)
		return nil, err
	}

	log.Printf("💳 Order %s created (gateway %s, amount %d %s)", created.OrderID, created.GatewayOrderID, created.Amount, created.Currency)
	return created, nil
}

// MarkPaid transitions a pending order to paid after verifying the gateway
// signature. Repeating the call with the already-applied payment id returns
// the paid order unchanged; a different payment id on a paid order is a
// Conflict.
func (s *OrderService) MarkPaid(orderID, gatewayPaymentID, signature string) (*models.Order, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusPaid {
		if order.GatewayPaymentID == gatewayPaymentID {
			return order, nil // idempotent replay
		}
		return nil, fmt.Errorf("order %s already paid with a different payment id: %w", orderID, models.ErrConflict)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, models.ErrConflict)
	}

	if !s.gateway.VerifyPaymentSignature(order.GatewayOrderID, gatewayPaymentID, signature) {
		// Audit the real reason here; callers only ever see a generic failure.
		log.Printf("🚨 Signature verification failed for order %s (payment %s)", orderID, gatewayPaymentID)
		if _, ferr := s.transition(order, models.OrderStatusFailed, "", "", "signature mismatch"); ferr != nil && !errors.Is(ferr, models.ErrConflict) {
			log.Printf("Failed to mark order %s failed: %v", orderID, ferr)
		}
		return nil, fmt.Errorf("payment verification for order %s: %w", orderID, models.ErrSignatureMismatch)
	}

	updated, err := s.transition(order, models.OrderStatusPaid, gatewayPaymentID, signature, "")
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Lost a race; a retried webhook carrying the same payment id is
			// still a success.
			current, gerr := s.store.GetOrder(orderID)
			if gerr == nil && current.Status == models.OrderStatusPaid && current.GatewayPaymentID == gatewayPaymentID {
				return current, nil
			}
		}
		return nil, err
	}

	if s.notifier != nil {
		if nerr := s.notifier.SendOrderConfirmation(updated); nerr != nil {
			log.Printf("Failed to send order confirmation for %s: %v", updated.OrderID, nerr)
		}
	}
	return updated, nil
}

// ConfirmPayment is MarkPaid keyed by the gateway's order id, as delivered by
// client confirmations and webhooks.
func (s *OrderService) ConfirmPayment(gatewayOrderID, gatewayPaymentID, signature string) (*models.Order, error) {
	order, err := s.store.GetOrderByGatewayOrderID(gatewayOrderID)
	if err != nil {
		return nil, err
	}
	return s.MarkPaid(order.OrderID, gatewayPaymentID, signature)
}

// MarkFailed transitions a pending order to failed. Terminal once set.
func (s *OrderService) MarkFailed(orderID, reason string) (*models.Order, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, models.ErrConflict)
	}
	return s.transition(order, models.OrderStatusFailed, "", "", reason)
}

// Refund transitions a paid order to refunded. The monetary refund itself is
// executed by the gateway out of band; this only flips state and signals the
// notifier.
func (s *OrderService) Refund(orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPaid {
		return nil, fmt.Errorf("order %s is %s, only paid orders can be refunded: %w", orderID, order.Status, models.ErrConflict)
	}

	updated, err := s.transition(order, models.OrderStatusRefunded, "", "", "")
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if nerr := s.notifier.SendRefundNotice(updated); nerr != nil {
			log.Printf("Failed to send refund notice for %s: %v", updated.OrderID, nerr)
		}
	}
	return updated, nil
}

// Get returns one order by its id.
func (s *OrderService) Get(orderID string) (*models.Order, error) {
	return s.store.GetOrder(orderID)
}

// List returns orders, optionally filtered by status.
func (s *OrderService) List(status string) ([]*models.Order, error) {
	if status != "" {
		return s.store.GetOrdersByStatus(status)
	}
	return s.store.GetAllOrders()
}

// transition runs the store compare-and-set and writes the audit line.
func (s *OrderService) transition(order *models.Order, toStatus, paymentID, signature, reason string) (*models.Order, error) {
	updated, err := s.store.TransitionOrder(order.OrderID, order.Status, toStatus, paymentID, signature, reason)
	if err != nil {
		return nil, err
	}
	log.Printf("📦 Order %s: %s → %s at %s", updated.OrderID, order.Status, updated.Status, updated.UpdatedAt.Format("2006-01-02 15:04:05"))
	return updated, nil
}

func validateOrderRequest(req *models.OrderRequest) (int64, error) {
	if len(req.Items) == 0 {
		return 0, fmt.Errorf("order has no items: %w", models.ErrInvalidInput)
	}

	var amount int64
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return 0, fmt.Errorf("item %d has quantity %d: %w", i, item.Quantity, models.ErrInvalidInput)
		}
		if item.Price < 0 {
			return 0, fmt.Errorf("item %d has negative price: %w", i, models.ErrInvalidInput)
		}
		amount += int64(item.Quantity) * item.Price
	}

	// A client-supplied total must agree with the computed sum.
	if req.Amount != 0 && req.Amount != amount {
		return 0, fmt.Errorf("client amount %d does not match computed %d: %w", req.Amount, amount, models.ErrInvalidInput)
	}

	c := &req.Customer
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Phone) == "" {
		return 0, fmt.Errorf("customer name, email and phone are required: %w", models.ErrInvalidInput)
	}
	a := &c.Address
	if strings.TrimSpace(a.Line1) == "" || strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.State) == "" || strings.TrimSpace(a.ZipCode) == "" {
		return 0, fmt.Errorf("shipping address is incomplete: %w", models.ErrInvalidInput)
	}

	return amount, nil
}
