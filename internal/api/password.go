package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutridiet/backend/internal/service"
	"github.com/nutridiet/backend/internal/types"
)

// PasswordHandler handles OTP issuance and password reset requests
type PasswordHandler struct {
	reset      service.IPasswordResetService
	email      service.IEmailService
	exposeCode bool
}

func NewPasswordHandler(reset service.IPasswordResetService, email service.IEmailService, exposeCode bool) *PasswordHandler {
	return &PasswordHandler{
		reset:      reset,
		email:      email,
		exposeCode: exposeCode,
	}
}

// RegisterRoutes registers the password routes
func (h *PasswordHandler) RegisterRoutes(router *gin.RouterGroup) {
	password := router.Group("/password")
	{
		password.POST("/request-otp", h.RequestOTP)
		password.POST("/reset", h.ResetPassword)
	}
}

// RequestOTP issues a fresh reset code for a known email and dispatches it
// by mail. With exposeCode set the code is also returned in the body, a
// test-deployment posture only.
func (h *PasswordHandler) RequestOTP(c *gin.Context) {
	var req types.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reset, err := h.reset.IssueOTP(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
			return
		}
		zap.L().Error("failed to issue OTP", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.email.SendOTPEmail(req.Email, reset.OTP); err != nil {
		zap.L().Error("failed to send OTP email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.exposeCode {
		c.JSON(http.StatusOK, gin.H{"message": "OTP generated successfully", "otp": reset.OTP})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email"})
}

// ResetPassword verifies a submitted OTP and updates the stored credential.
// The code is consumed only after the credential update succeeds.
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req types.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.reset.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	case errors.Is(err, service.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
	case errors.Is(err, service.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired"})
	case errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	default:
		zap.L().Error("password reset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
