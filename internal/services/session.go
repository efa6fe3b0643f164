package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pixo-prints/pixo-backend/config"
	"github.com/pixo-prints/pixo-backend/internal/models"
)

// SessionService issues and verifies admin session tokens. Tokens are signed
// HS256 JWTs checked on every privileged call; nothing about session validity
// is ever client-asserted.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// SessionClaims are the claims carried by an admin session token.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewSessionService creates a session service from the admin config.
func NewSessionService(cfg *config.AdminConfig) *SessionService {
	return &SessionService{
		secret: []byte(cfg.SessionSecret),
		ttl:    cfg.SessionTTL,
		issuer: cfg.Issuer,
	}
}

// IssueAdminToken mints a fresh admin-scoped session token.
func (s *SessionService) IssueAdminToken(subject string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}
	now := time.Now()
	claims := SessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyAdminToken parses a session token and checks signature, expiry and
// scope.
func (s *SessionService) VerifyAdminToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", models.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Role != "admin" {
		return nil, fmt.Errorf("invalid session token: %w", models.ErrUnauthorized)
	}
	return claims, nil
}
