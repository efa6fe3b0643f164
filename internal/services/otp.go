package services

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/pixo-prints/pixo-backend/internal/models"
	"github.com/pixo-prints/pixo-backend/internal/storage"
	"github.com/pixo-prints/pixo-backend/internal/utils"
)

// OTPService issues and validates short-lived one-time codes. Codes are
// single-use: consumption happens through a conditional store update, so two
// concurrent validates cannot both succeed. Brute-force protection (rate
// limiting per subject) belongs to the HTTP layer, not here.
type OTPService struct {
	store storage.Store
	ttl   time.Duration
}

// NewOTPService creates a new OTP service with the given code lifetime.
func NewOTPService(store storage.Store, ttl time.Duration) *OTPService {
	return &OTPService{store: store, ttl: ttl}
}

// Issue generates a fresh code for the subject and persists it. Any prior
// unconsumed code for the same subject is superseded by the store.
func (s *OTPService) Issue(email string) (*models.OTP, error) {
	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	otp := &models.OTP{
		Email:     NormalizeEmail(email),
		Code:      code,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	return s.store.CreateOTP(otp)
}

// Validate checks a submitted code for the subject. Errors distinguish
// NotFound, Expired, Mismatch and AlreadyUsed for server-side logging; the
// HTTP layer collapses them to a generic unauthorized response.
func (s *OTPService) Validate(email, submitted string) error {
	otp, err := s.store.GetActiveOTP(NormalizeEmail(email))
	if err != nil {
		return err
	}

	if otp.Expired(time.Now()) {
		return fmt.Errorf("code for %s expired at %s: %w", otp.Email, otp.ExpiresAt.Format(time.RFC3339), models.ErrExpired)
	}

	// Constant-time compare; a 6-digit code is weak enough without adding a
	// timing oracle on top.
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(submitted)) != 1 {
		return fmt.Errorf("wrong code for %s: %w", otp.Email, models.ErrMismatch)
	}

	// Single-use: the store applies verified=false -> true atomically, so a
	// concurrent duplicate validate loses here.
	return s.store.MarkOTPVerified(otp.ID)
}

// NormalizeEmail lowercases and trims a subject email so lookups and
// issuance agree on the key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
