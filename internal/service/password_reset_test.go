package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nutridiet/backend/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.PasswordReset{}))
	return db
}

func createAccount(t *testing.T, db *gorm.DB, email string) models.Account {
	account := models.Account{UserID: uuid.New(), Email: email}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := generateOTP()
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestIssueOTPStoresRow(t *testing.T) {
	db := setupServiceDB(t)
	createAccount(t, db, "ana@example.com")
	svc := NewPasswordResetService(db, NewAuthService(db), 10*time.Minute)

	before := time.Now()
	reset, err := svc.IssueOTP(context.Background(), "ana@example.com")
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", reset.Email)
	assert.Len(t, reset.OTP, 6)
	assert.False(t, reset.Used)
	assert.WithinDuration(t, before.Add(10*time.Minute), reset.ExpiresAt, 2*time.Second)

	var stored models.PasswordReset
	require.NoError(t, db.First(&stored, "id = ?", reset.ID).Error)
	assert.Equal(t, reset.OTP, stored.OTP)
}

func TestIssueOTPUnknownEmail(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewPasswordResetService(db, NewAuthService(db), 10*time.Minute)

	_, err := svc.IssueOTP(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	var count int64
	db.Model(&models.PasswordReset{}).Count(&count)
	assert.Zero(t, count)
}

func TestNewPasswordResetServiceDefaultTTL(t *testing.T) {
	db := setupServiceDB(t)
	createAccount(t, db, "ana@example.com")
	svc := NewPasswordResetService(db, NewAuthService(db), 0)

	reset, err := svc.IssueOTP(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), reset.ExpiresAt, 2*time.Second)
}

func TestResetPasswordConsumesRowLast(t *testing.T) {
	db := setupServiceDB(t)
	createAccount(t, db, "ana@example.com")
	svc := NewPasswordResetService(db, NewAuthService(db), 10*time.Minute)

	reset, err := svc.IssueOTP(context.Background(), "ana@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), "ana@example.com", reset.OTP, "updated-pass"))

	var row models.PasswordReset
	require.NoError(t, db.First(&row, "id = ?", reset.ID).Error)
	assert.True(t, row.Used)

	err = svc.ResetPassword(context.Background(), "ana@example.com", reset.OTP, "updated-pass")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestResetPasswordExpired(t *testing.T) {
	db := setupServiceDB(t)
	createAccount(t, db, "ana@example.com")
	svc := NewPasswordResetService(db, NewAuthService(db), 10*time.Minute)

	row := models.PasswordReset{
		ID:        uuid.New(),
		Email:     "ana@example.com",
		OTP:       "123456",
		ExpiresAt: time.Now().Add(-time.Second),
	}
	require.NoError(t, db.Create(&row).Error)

	err := svc.ResetPassword(context.Background(), "ana@example.com", "123456", "updated-pass")
	assert.ErrorIs(t, err, ErrOTPExpired)
}

// brokenAuth resolves accounts but fails every credential update.
type brokenAuth struct {
	inner IAuthService
}

func (a *brokenAuth) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return a.inner.GetAccountByEmail(ctx, email)
}

func (a *brokenAuth) AdminSetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	return errors.New("update refused")
}

func TestResetPasswordUpdateFailureLeavesCodeLive(t *testing.T) {
	db := setupServiceDB(t)
	createAccount(t, db, "ana@example.com")
	svc := NewPasswordResetService(db, &brokenAuth{inner: NewAuthService(db)}, 10*time.Minute)

	reset, err := svc.IssueOTP(context.Background(), "ana@example.com")
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "ana@example.com", reset.OTP, "updated-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update refused")

	var row models.PasswordReset
	require.NoError(t, db.First(&row, "id = ?", reset.ID).Error)
	assert.False(t, row.Used)
}
