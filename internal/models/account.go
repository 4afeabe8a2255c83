package models

import (
	"time"

	"github.com/google/uuid"
)

// Account mirrors the account table owned by the identity subsystem. This
// service reads it to resolve emails and only ever writes password_hash
// through the administrative reset path.
type Account struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
