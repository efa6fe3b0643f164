package utils

import (
	"strings"
	"testing"
)

func TestGenerateSecureOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateSecureOTP()
		if err != nil {
			t.Fatalf("GenerateSecureOTP failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
		seen[code] = true
	}
	// 50 draws from a 10^6 space colliding down to a handful would mean the
	// generator is broken.
	if len(seen) < 40 {
		t.Errorf("only %d distinct codes in 50 draws", len(seen))
	}
}

func TestGenerateSecureID(t *testing.T) {
	a := GenerateSecureID("ORD")
	b := GenerateSecureID("ORD")
	if !strings.HasPrefix(a, "ORD") {
		t.Errorf("id %q missing prefix", a)
	}
	if a == b {
		t.Errorf("consecutive ids collided: %q", a)
	}
}
