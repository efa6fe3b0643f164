package models

import (
	"time"

	"gorm.io/gorm"
)

// OTP is a short-lived one-time code bound to a subject email. At most one
// unverified, unexpired code per subject is considered live; issuing a new
// one supersedes the rest.
type OTP struct {
	gorm.Model
	Email     string    `gorm:"not null;index"` // lowercased, trimmed
	Code      string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Verified  bool      `gorm:"default:false"`
}

// Expired reports whether the code is past its TTL at the given instant.
func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
