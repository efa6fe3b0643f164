package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/pixo-prints/pixo-backend/config"
	"github.com/pixo-prints/pixo-backend/internal/models"
)

// GatewayClient is the payment gateway as seen by the order service: open a
// remote order, and verify confirmations cryptographically.
type GatewayClient interface {
	CreateOrder(amount int64, currency, receipt string) (string, error)
	VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
}

// RazorpayClient talks to a Razorpay-compatible REST API.
type RazorpayClient struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

// NewRazorpayClient creates a gateway client from config. The HTTP client
// carries an explicit timeout; calls are not retried here since order
// creation is not idempotent on the remote side.
func NewRazorpayClient(cfg *config.GatewayConfig) *RazorpayClient {
	return &RazorpayClient{
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       cfg.BaseURL,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder opens a matching order on the gateway and returns its id.
func (r *RazorpayClient) CreateOrder(amount int64, currency, receipt string) (string, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal gateway order: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, r.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gateway request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway order create failed: %v: %w", err, models.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 500 {
		log.Printf("Gateway returned %d creating order for receipt %s", resp.StatusCode, receipt)
		return "", fmt.Errorf("gateway returned %d: %w", resp.StatusCode, models.ErrGatewayUnavailable)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Gateway rejected order for receipt %s: %d %s", receipt, resp.StatusCode, respBody)
		return "", fmt.Errorf("gateway returned %d: %w", resp.StatusCode, models.ErrGatewayRejected)
	}

	var created createOrderResponse
	if err := json.Unmarshal(respBody, &created); err != nil || created.ID == "" {
		return "", fmt.Errorf("unexpected gateway response: %w", models.ErrGatewayUnavailable)
	}
	return created.ID, nil
}

// VerifyPaymentSignature recomputes the gateway's payment signature and
// compares it in constant time. The signed message is
// "<gatewayOrderID>|<gatewayPaymentID>" keyed with the key secret. This is
// the trust boundary: no order may be marked paid unless this passes.
func (r *RazorpayClient) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(r.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header over the raw
// webhook body using the webhook secret.
func (r *RazorpayClient) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(r.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
