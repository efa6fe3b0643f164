package storage

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pixo-prints/pixo-backend/internal/models"
)

func pendingOrder(orderID, gatewayOrderID string) *models.Order {
	return &models.Order{
		OrderID:        orderID,
		GatewayOrderID: gatewayOrderID,
		Customer: models.Customer{
			Name:  "Asha Rao",
			Email: "asha@example.com",
			Phone: "+919800000000",
		},
		Items: []models.OrderItem{
			{ProductTitle: "Neon Skyline", Quantity: 2, Price: 499},
		},
		Amount:   998,
		Currency: "INR",
		Status:   models.OrderStatusPending,
	}
}

func TestCreateOrderUniqueness(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.CreateOrder(pendingOrder("ORD1", "order_A")); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := store.CreateOrder(pendingOrder("ORD1", "order_B")); !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate order id: got %v, want ErrConflict", err)
	}
	if _, err := store.CreateOrder(pendingOrder("ORD2", "order_A")); !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate gateway order id: got %v, want ErrConflict", err)
	}
}

func TestGetOrderByGatewayOrderID(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.CreateOrder(pendingOrder("ORD1", "order_A")); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	order, err := store.GetOrderByGatewayOrderID("order_A")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if order.OrderID != "ORD1" {
		t.Errorf("order id = %q", order.OrderID)
	}

	if _, err := store.GetOrderByGatewayOrderID("order_missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestTransitionOrderCompareAndSet(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.CreateOrder(pendingOrder("ORD1", "order_A")); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	updated, err := store.TransitionOrder("ORD1", models.OrderStatusPending, models.OrderStatusPaid, "pay_1", "sig", "")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if updated.Status != models.OrderStatusPaid || updated.GatewayPaymentID != "pay_1" {
		t.Errorf("updated = %s/%s", updated.Status, updated.GatewayPaymentID)
	}

	// The same CAS again must lose: status is no longer pending.
	if _, err := store.TransitionOrder("ORD1", models.OrderStatusPending, models.OrderStatusFailed, "", "", "late"); !errors.Is(err, models.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}

	current, _ := store.GetOrder("ORD1")
	if current.Status != models.OrderStatusPaid {
		t.Errorf("loser mutated status to %q", current.Status)
	}
}

func TestTransitionOrderConcurrentSingleWinner(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.CreateOrder(pendingOrder("ORD1", "order_A")); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	wins := make(chan string, attempts)

	for i := 0; i < attempts; i++ {
		to := models.OrderStatusPaid
		if i%2 == 1 {
			to = models.OrderStatusFailed
		}
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			if _, err := store.TransitionOrder("ORD1", models.OrderStatusPending, to, "", "", ""); err == nil {
				wins <- to
			}
		}(to)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("winners = %d, want exactly 1", len(winners))
	}
	current, _ := store.GetOrder("ORD1")
	if current.Status != winners[0] {
		t.Errorf("final status %q does not match winner %q", current.Status, winners[0])
	}
}

func TestTransitionOrderNotFound(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.TransitionOrder("ORD404", models.OrderStatusPending, models.OrderStatusPaid, "", "", ""); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestOTPSupersedeOnCreate(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.CreateOTP(&models.OTP{Email: "admin@pixoprints.in", Code: "111111", ExpiresAt: time.Now().Add(time.Minute)})
	if err != nil {
		t.Fatalf("CreateOTP failed: %v", err)
	}
	if _, err := store.CreateOTP(&models.OTP{Email: "admin@pixoprints.in", Code: "222222", ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("CreateOTP failed: %v", err)
	}

	active, err := store.GetActiveOTP("admin@pixoprints.in")
	if err != nil {
		t.Fatalf("GetActiveOTP failed: %v", err)
	}
	if active.Code != "222222" {
		t.Errorf("active code = %q, want the fresh one", active.Code)
	}
	if err := store.MarkOTPVerified(first.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("superseded otp still present: %v", err)
	}
}

func TestMarkOTPVerifiedSingleUse(t *testing.T) {
	store := NewMemoryStore()
	otp, err := store.CreateOTP(&models.OTP{Email: "admin@pixoprints.in", Code: "111111", ExpiresAt: time.Now().Add(time.Minute)})
	if err != nil {
		t.Fatalf("CreateOTP failed: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	var successes int32
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.MarkOTPVerified(otp.ID)
		}()
	}
	wg.Wait()
	close(results)

	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, models.ErrAlreadyUsed) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
}

func TestDeleteExpiredOTPs(t *testing.T) {
	store := NewMemoryStore()
	_, _ = store.CreateOTP(&models.OTP{Email: "a@x.in", Code: "111111", ExpiresAt: time.Now().Add(-time.Minute)})
	_, _ = store.CreateOTP(&models.OTP{Email: "b@x.in", Code: "222222", ExpiresAt: time.Now().Add(time.Minute)})

	removed, err := store.DeleteExpiredOTPs()
	if err != nil {
		t.Fatalf("DeleteExpiredOTPs failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := store.GetActiveOTP("b@x.in"); err != nil {
		t.Errorf("live otp was purged: %v", err)
	}
}
