package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllows(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("attempt %d denied, want allowed", i+1)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Error("attempt over the limit allowed")
	}

	// Other keys are unaffected.
	if !limiter.Allow("5.6.7.8") {
		t.Error("independent key denied")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond)

	if !limiter.Allow("k") {
		t.Fatal("first attempt denied")
	}
	if limiter.Allow("k") {
		t.Fatal("second attempt inside window allowed")
	}

	time.Sleep(30 * time.Millisecond)
	if !limiter.Allow("k") {
		t.Error("attempt after window expiry denied")
	}
}
