package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateSecureOTP generates a cryptographically secure 6-digit OTP,
// uniform over 000000–999999.
func GenerateSecureOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateSecureID generates a secure random ID for orders.
func GenerateSecureID(prefix string) string {
	// Timestamp + random suffix for uniqueness
	n, _ := rand.Int(rand.Reader, big.NewInt(1000000))
	return fmt.Sprintf("%s%d%06d", prefix, time.Now().Unix(), n.Int64())
}
