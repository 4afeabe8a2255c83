package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutridiet/backend/internal/models"
)

var (
	ErrInvalidOTP = errors.New("invalid or expired OTP")
	ErrOTPExpired = errors.New("OTP expired")
)

// PasswordResetService owns the password_resets table: code issuance,
// verification and consumption.
type PasswordResetService struct {
	db   *gorm.DB
	auth IAuthService
	ttl  time.Duration
}

func NewPasswordResetService(db *gorm.DB, auth IAuthService, ttl time.Duration) *PasswordResetService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PasswordResetService{db: db, auth: auth, ttl: ttl}
}

// generateOTP draws a 6-digit code uniformly from [100000, 999999].
func generateOTP() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}

// IssueOTP creates a fresh reset code for the account matching email.
// Prior unconsumed codes for the same email are left alone, so two live
// codes may coexist. Returns ErrAccountNotFound when the email is unknown;
// in that case nothing is written.
func (s *PasswordResetService) IssueOTP(ctx context.Context, email string) (*models.PasswordReset, error) {
	if _, err := s.auth.GetAccountByEmail(ctx, email); err != nil {
		return nil, err
	}

	reset := &models.PasswordReset{
		ID:        uuid.New(),
		Email:     email,
		OTP:       generateOTP(),
		ExpiresAt: time.Now().Add(s.ttl),
		Used:      false,
	}
	if err := s.db.WithContext(ctx).Create(reset).Error; err != nil {
		return nil, fmt.Errorf("failed to store reset code: %w", err)
	}
	return reset, nil
}

// ResetPassword verifies the submitted code and replaces the account's
// credential. The row is marked used only after the credential update
// succeeds, so a failed update never burns a valid code. Consumption is a
// conditional update on used=false; if another request consumed the row
// in between, this one fails as invalid.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	var reset models.PasswordReset
	err := s.db.WithContext(ctx).
		Where("email = ? AND otp = ? AND used = ?", email, otp, false).
		First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("failed to look up reset code: %w", err)
	}

	if time.Now().After(reset.ExpiresAt) {
		return ErrOTPExpired
	}

	account, err := s.auth.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.auth.AdminSetPassword(ctx, account.UserID, newPassword); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&models.PasswordReset{}).
		Where("id = ? AND used = ?", reset.ID, false).
		Update("used", true)
	if result.Error != nil {
		return fmt.Errorf("failed to consume reset code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvalidOTP
	}
	return nil
}
