package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pixo-prints/pixo-backend/config"
	"github.com/pixo-prints/pixo-backend/internal/models"
)

func newTestRazorpayClient(baseURL string) *RazorpayClient {
	return NewRazorpayClient(&config.GatewayConfig{
		KeyID:         "rzp_test_key",
		KeySecret:     testSecret,
		WebhookSecret: "test-webhook-secret",
		BaseURL:       baseURL,
		Timeout:       2 * time.Second,
	})
}

func TestRazorpayCreateOrder(t *testing.T) {
	var gotReceipt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("path = %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != testSecret {
			t.Error("missing or wrong basic auth")
		}
		var req struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotReceipt = req.Receipt
		if req.Amount != 998 || req.Currency != "INR" {
			t.Errorf("amount/currency = %d/%s", req.Amount, req.Currency)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "order_remote123"})
	}))
	defer server.Close()

	client := newTestRazorpayClient(server.URL)
	id, err := client.CreateOrder(998, "INR", "ORD1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if id != "order_remote123" {
		t.Errorf("id = %q", id)
	}
	if gotReceipt != "ORD1" {
		t.Errorf("receipt = %q", gotReceipt)
	}
}

func TestRazorpayCreateOrderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestRazorpayClient(server.URL)
	if _, err := client.CreateOrder(998, "INR", "ORD1"); !errors.Is(err, models.ErrGatewayUnavailable) {
		t.Errorf("got %v, want ErrGatewayUnavailable", err)
	}
}

func TestRazorpayCreateOrderRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"amount too small"}}`))
	}))
	defer server.Close()

	client := newTestRazorpayClient(server.URL)
	if _, err := client.CreateOrder(0, "INR", "ORD1"); !errors.Is(err, models.ErrGatewayRejected) {
		t.Errorf("got %v, want ErrGatewayRejected", err)
	}
}

func TestRazorpayCreateOrderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestRazorpayClient(server.URL)
	if _, err := client.CreateOrder(998, "INR", "ORD1"); !errors.Is(err, models.ErrGatewayUnavailable) {
		t.Errorf("got %v, want ErrGatewayUnavailable", err)
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := newTestRazorpayClient("http://unused")

	good := signPayment(testSecret, "order_A", "pay_1")

	cases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{"valid", "order_A", "pay_1", good, true},
		{"wrong secret", "order_A", "pay_1", signPayment("other-secret", "order_A", "pay_1"), false},
		{"tampered payment id", "order_A", "pay_2", good, false},
		{"replayed from another order", "order_B", "pay_1", good, false},
		{"empty signature", "order_A", "pay_1", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := client.VerifyPaymentSignature(tc.orderID, tc.paymentID, tc.signature); got != tc.want {
				t.Errorf("VerifyPaymentSignature = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := newTestRazorpayClient("http://unused")
	body := []byte(`{"event":"payment.captured"}`)

	good := signWebhookBody("test-webhook-secret", body)
	if !client.VerifyWebhookSignature(body, good) {
		t.Error("valid webhook signature rejected")
	}
	if client.VerifyWebhookSignature([]byte(`{"event":"tampered"}`), good) {
		t.Error("signature accepted for a different body")
	}
	if client.VerifyWebhookSignature(body, signWebhookBody("wrong", body)) {
		t.Error("signature with wrong secret accepted")
	}
}
