package models

import "errors"

// Error taxonomy shared across services, storage and handlers. Services wrap
// these with context via fmt.Errorf("...: %w", err); handlers map them to
// HTTP status codes in one place.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrExpired            = errors.New("expired")
	ErrMismatch           = errors.New("code mismatch")
	ErrSignatureMismatch  = errors.New("signature mismatch")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyUsed        = errors.New("already used")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected request")
	ErrUnauthorized       = errors.New("unauthorized")
)
