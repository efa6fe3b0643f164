package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/pixo-prints/pixo-backend/internal/models"
)

func signWebhookBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func capturedEvent(gatewayOrderID, paymentID, signature string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"signature":%q}}}}`,
		paymentID, gatewayOrderID, signature))
}

func failedEvent(gatewayOrderID, paymentID, desc string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.failed","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"error_code":"BAD_REQUEST_ERROR","error_description":%q}}}}`,
		paymentID, gatewayOrderID, desc))
}

func TestWebhookPaymentCaptured(t *testing.T) {
	orders, _, _ := newTestOrderService(t)
	webhooks := NewPaymentWebhookService(orders)

	order, _ := orders.Create(testOrderRequest())
	sig := signPayment(testSecret, order.GatewayOrderID, "pay_wh1")

	if err := webhooks.Process(capturedEvent(order.GatewayOrderID, "pay_wh1", sig)); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	current, _ := orders.Get(order.OrderID)
	if current.Status != models.OrderStatusPaid {
		t.Errorf("status = %q, want paid", current.Status)
	}

	// Retried delivery of the same event is a no-op success.
	if err := webhooks.Process(capturedEvent(order.GatewayOrderID, "pay_wh1", sig)); err != nil {
		t.Errorf("retried webhook errored: %v", err)
	}
}

func TestWebhookPaymentFailed(t *testing.T) {
	orders, _, _ := newTestOrderService(t)
	webhooks := NewPaymentWebhookService(orders)

	order, _ := orders.Create(testOrderRequest())

	if err := webhooks.Process(failedEvent(order.GatewayOrderID, "pay_wh1", "card declined")); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	current, _ := orders.Get(order.OrderID)
	if current.Status != models.OrderStatusFailed {
		t.Errorf("status = %q, want failed", current.Status)
	}
}

func TestWebhookFailureAfterSettlementIgnored(t *testing.T) {
	orders, _, _ := newTestOrderService(t)
	webhooks := NewPaymentWebhookService(orders)

	order, _ := orders.Create(testOrderRequest())
	sig := signPayment(testSecret, order.GatewayOrderID, "pay_wh1")
	if _, err := orders.MarkPaid(order.OrderID, "pay_wh1", sig); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	// A late failure notice for a settled order must not flip state or error.
	if err := webhooks.Process(failedEvent(order.GatewayOrderID, "pay_wh1", "timeout")); err != nil {
		t.Errorf("late failure webhook errored: %v", err)
	}
	current, _ := orders.Get(order.OrderID)
	if current.Status != models.OrderStatusPaid {
		t.Errorf("status = %q, want paid", current.Status)
	}
}

func TestWebhookMalformedBody(t *testing.T) {
	orders, _, _ := newTestOrderService(t)
	webhooks := NewPaymentWebhookService(orders)

	if err := webhooks.Process([]byte("{not json")); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestWebhookUnknownEventIgnored(t *testing.T) {
	orders, _, _ := newTestOrderService(t)
	webhooks := NewPaymentWebhookService(orders)

	if err := webhooks.Process([]byte(`{"event":"order.paid"}`)); err != nil {
		t.Errorf("unknown event errored: %v", err)
	}
}
