package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/pixo-prints/pixo-backend/internal/models"
)

// PaymentWebhookService handles payment gateway webhooks. The raw body is
// authenticated upstream (webhook signature middleware); per-payment
// signatures are still verified by the order service before any transition.
type PaymentWebhookService struct {
	orders *OrderService
}

// NewPaymentWebhookService creates a new webhook processor.
func NewPaymentWebhookService(orders *OrderService) *PaymentWebhookService {
	return &PaymentWebhookService{orders: orders}
}

// WebhookEvent is the envelope the gateway posts.
type WebhookEvent struct {
	Event     string `json:"event"`
	CreatedAt int64  `json:"created_at"`
	Payload   struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentEntity is the payment object inside a webhook event.
type PaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Signature        string `json:"signature"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

// Process dispatches a webhook body to the order state machine. Retried
// deliveries are harmless: replays resolve through the idempotency rules.
func (p *PaymentWebhookService) Process(body []byte) error {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to parse webhook: %w", models.ErrInvalidInput)
	}

	log.Printf("Processing payment webhook: %s", event.Event)

	switch event.Event {
	case "payment.captured":
		return p.handlePaymentCaptured(event.Payload.Payment.Entity)
	case "payment.failed":
		return p.handlePaymentFailed(event.Payload.Payment.Entity)
	default:
		log.Printf("Unhandled webhook event: %s", event.Event)
		return nil
	}
}

func (p *PaymentWebhookService) handlePaymentCaptured(payment PaymentEntity) error {
	if payment.OrderID == "" || payment.ID == "" {
		return fmt.Errorf("webhook payment entity missing ids: %w", models.ErrInvalidInput)
	}

	order, err := p.orders.ConfirmPayment(payment.OrderID, payment.ID, payment.Signature)
	if err != nil {
		return err
	}

	log.Printf("Payment processed successfully: %s for order %s", payment.ID, order.OrderID)
	return nil
}

func (p *PaymentWebhookService) handlePaymentFailed(payment PaymentEntity) error {
	order, err := p.orders.store.GetOrderByGatewayOrderID(payment.OrderID)
	if err != nil {
		return err
	}

	reason := payment.ErrorDescription
	if reason == "" {
		reason = "gateway reported failure"
	}
	log.Printf("Payment failed: %s for order %s - %s: %s",
		payment.ID, order.OrderID, payment.ErrorCode, reason)

	if _, err := p.orders.MarkFailed(order.OrderID, reason); err != nil {
		// A failure notice racing a settled order is not an error worth
		// surfacing to the gateway; it would only trigger retries.
		if errors.Is(err, models.ErrConflict) {
			log.Printf("Ignoring failure webhook for settled order %s (%s)", order.OrderID, order.Status)
			return nil
		}
		return err
	}
	return nil
}
