package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset is a one-time reset code bound to an email. Rows are never
// deleted by this service; a row may be consumed (used=true) at most once,
// and only while unexpired.
type PasswordReset struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"not null;index" json:"email"`
	OTP       string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
