package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nutridiet/backend/internal/models"
)

// ICompletionService defines the completion API operations handlers depend
// on, so tests can substitute a stand-in.
type ICompletionService interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	GenerateDietPlan(ctx context.Context, recommendedCalories float64, specialConditions []string, allergies string) (string, error)
}

// IAuthService defines the identity operations used by the reset flow.
type IAuthService interface {
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	AdminSetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error
}

// IPasswordResetService defines OTP issuance and consumption.
type IPasswordResetService interface {
	IssueOTP(ctx context.Context, email string) (*models.PasswordReset, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

// IEmailService defines the interface for email operations
type IEmailService interface {
	SendOTPEmail(to, code string) error
}
