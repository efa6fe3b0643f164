package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries all runtime configuration. Loaded once in main and passed
// by reference into each component.
type Config struct {
	Server  ServerConfig
	Gateway GatewayConfig
	Admin   AdminConfig
	OTP     OTPConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// GatewayConfig holds the Razorpay-style payment gateway credentials. The key
// secret is used only to recompute signatures server-side and is never sent
// anywhere.
type GatewayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
	Timeout       time.Duration
	Currency      string
}

type AdminConfig struct {
	Email         string // fixed subject identity for admin OTPs
	Password      string
	SessionSecret string
	SessionTTL    time.Duration
	Issuer        string
}

type OTPConfig struct {
	TTL time.Duration
	// Validate attempts allowed per subject inside the window. Enforced at
	// the HTTP layer; a 6-digit code is a weak secret without throttling.
	ValidateLimit  int
	ValidateWindow time.Duration
}

// Load reads configuration from environment variables with defaults suitable
// for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENVIRONMENT", "development"),
		},
		Gateway: GatewayConfig{
			KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
			WebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
			BaseURL:       getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			Timeout:       getDuration("RAZORPAY_TIMEOUT", 10*time.Second),
			Currency:      getEnv("ORDER_CURRENCY", "INR"),
		},
		Admin: AdminConfig{
			Email:         getEnv("ADMIN_EMAIL", "admin@pixoprints.in"),
			Password:      os.Getenv("ADMIN_PASSWORD"),
			SessionSecret: os.Getenv("ADMIN_SESSION_SECRET"),
			SessionTTL:    getDuration("ADMIN_SESSION_TTL", 30*time.Minute),
			Issuer:        "pixo-backend",
		},
		OTP: OTPConfig{
			TTL:            getDuration("OTP_TTL", 10*time.Minute),
			ValidateLimit:  getInt("OTP_VALIDATE_LIMIT", 5),
			ValidateWindow: getDuration("OTP_VALIDATE_WINDOW", 10*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
