package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nutridiet/backend/internal/models"
)

var ErrAccountNotFound = errors.New("account not found")

// AuthService exposes the small slice of the identity subsystem this
// service needs: email lookup and the administrative credential update.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// GetAccountByEmail resolves an account by exact email match.
func (s *AuthService) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// AdminSetPassword replaces the stored credential for an account. This is
// the administrative path used by the password-reset flow; it does not
// require the current password.
func (s *AuthService) AdminSetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("user_id = ?", userID).
		Update("password_hash", string(hashed))
	if result.Error != nil {
		return fmt.Errorf("failed to update credential: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
