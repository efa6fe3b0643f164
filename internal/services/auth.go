package services

import (
	"crypto/subtle"
	"fmt"
	"log"

	"github.com/pixo-prints/pixo-backend/config"
	"github.com/pixo-prints/pixo-backend/internal/models"
)

// AdminAuthService is the two-factor front door for privileged access: a
// password check issues an OTP, and only the OTP yields a session token. A
// leaked password alone never grants a session.
type AdminAuthService struct {
	cfg      *config.AdminConfig
	otp      *OTPService
	sessions *SessionService
	notifier Notifier
}

// NewAdminAuthService wires the admin auth facade.
func NewAdminAuthService(cfg *config.AdminConfig, otp *OTPService, sessions *SessionService, notifier Notifier) *AdminAuthService {
	return &AdminAuthService{
		cfg:      cfg,
		otp:      otp,
		sessions: sessions,
		notifier: notifier,
	}
}

// Login checks the admin password and, on success, issues and delivers an
// OTP for the fixed admin subject. The error is the same regardless of how
// wrong the password was.
func (s *AdminAuthService) Login(password string) error {
	if s.cfg.Password == "" {
		log.Println("🚨 ADMIN_PASSWORD not configured; admin login disabled")
		return fmt.Errorf("admin login disabled: %w", models.ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(s.cfg.Password), []byte(password)) != 1 {
		return fmt.Errorf("admin password check failed: %w", models.ErrUnauthorized)
	}

	otp, err := s.otp.Issue(s.cfg.Email)
	if err != nil {
		return fmt.Errorf("issue admin otp: %v", err)
	}

	if err := s.notifier.SendOTP(otp.Email, otp.Code, s.otp.ttl); err != nil {
		log.Printf("Failed to deliver admin OTP: %v", err)
		return fmt.Errorf("otp delivery failed: %v", err)
	}

	log.Printf("🔐 Admin OTP issued for %s", otp.Email)
	return nil
}

// Verify validates a submitted OTP and mints an admin session token. The
// specific failure reason is logged for audit only; callers get a generic
// unauthorized error.
func (s *AdminAuthService) Verify(code string) (string, error) {
	if err := s.otp.Validate(s.cfg.Email, code); err != nil {
		log.Printf("🚨 Admin OTP verification failed: %v", err)
		return "", fmt.Errorf("otp verification failed: %w", models.ErrUnauthorized)
	}

	token, err := s.sessions.IssueAdminToken(s.cfg.Email)
	if err != nil {
		return "", fmt.Errorf("issue session token: %v", err)
	}

	log.Printf("🔓 Admin session granted for %s", s.cfg.Email)
	return token, nil
}
