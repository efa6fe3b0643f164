package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/pixo-prints/pixo-backend/internal/models"
)

// Notifier delivers payloads out of band. This core only produces the
// message; delivery and retries are the notifier's problem.
type Notifier interface {
	SendOTP(email, code string, ttl time.Duration) error
	SendOrderConfirmation(order *models.Order) error
	SendRefundNotice(order *models.Order) error
}

// TwilioNotifier sends SMS via Twilio. Admin OTPs go to the configured admin
// phone; order notices go to the customer phone captured on the order.
type TwilioNotifier struct {
	client     *twilio.RestClient
	from       string
	adminPhone string
}

// NewTwilioNotifier creates a Twilio-backed notifier from environment
// credentials.
func NewTwilioNotifier() (*TwilioNotifier, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioNotifier{
		client:     client,
		from:       from,
		adminPhone: adminPhone,
	}, nil
}

func (t *TwilioNotifier) SendOTP(email, code string, ttl time.Duration) error {
	if t.adminPhone == "" {
		return fmt.Errorf("no admin phone configured for OTP delivery to %s", email)
	}
	msg := fmt.Sprintf("Your Pixo admin code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
	return t.send(t.adminPhone, msg)
}

func (t *TwilioNotifier) SendOrderConfirmation(order *models.Order) error {
	msg := fmt.Sprintf("Pixo: payment received for order %s (₹%.2f). We'll start printing right away!",
		order.OrderID, float64(order.Amount)/100)
	return t.send(order.Customer.Phone, msg)
}

func (t *TwilioNotifier) SendRefundNotice(order *models.Order) error {
	msg := fmt.Sprintf("Pixo: your order %s has been refunded (₹%.2f). The amount will reach you in 5-7 days.",
		order.OrderID, float64(order.Amount)/100)
	return t.send(order.Customer.Phone, msg)
}

func (t *TwilioNotifier) send(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS: %v", err)
		return err
	}
	log.Printf("✅ SMS sent! SID: %s", *resp.Sid)
	return nil
}

// LogNotifier writes payloads to the log. Used when Twilio is not configured
// and in tests.
type LogNotifier struct{}

func (LogNotifier) SendOTP(email, code string, ttl time.Duration) error {
	log.Printf("📧 [notifier] OTP for %s: %s (valid %s)", email, code, ttl)
	return nil
}

func (LogNotifier) SendOrderConfirmation(order *models.Order) error {
	log.Printf("📧 [notifier] order %s confirmed for %s", order.OrderID, order.Customer.Email)
	return nil
}

func (LogNotifier) SendRefundNotice(order *models.Order) error {
	log.Printf("📧 [notifier] order %s refunded for %s", order.OrderID, order.Customer.Email)
	return nil
}
