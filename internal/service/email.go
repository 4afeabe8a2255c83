package service

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/nutridiet/backend/config"
)

// EmailService sends transactional mail. When SMTP is not configured the
// message is logged instead of dialed, which keeps local and test
// deployments working without a relay.
type EmailService struct {
	dialer     *gomail.Dialer
	from       string
	configured bool
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	service := &EmailService{from: cfg.From}
	if cfg.Host != "" {
		service.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
		service.configured = true
	}
	return service
}

// SendOTPEmail delivers a password-reset code.
func (s *EmailService) SendOTPEmail(to, code string) error {
	body := fmt.Sprintf(`
		<h3>NutriDiet password reset</h3>
		<p>We received a request to reset the password for your account.</p>
		<p>Your one-time code is: <strong>%s</strong></p>
		<p>The code expires in 10 minutes. If you did not request this change, you can ignore this email.</p>
	`, code)

	if !s.configured {
		zap.L().Info("SMTP not configured, logging OTP email instead",
			zap.String("to", to),
			zap.String("code", code))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your NutriDiet password reset code")
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}
