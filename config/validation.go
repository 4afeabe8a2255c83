package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable before the
// server starts. SMTP is optional: the email service falls back to logging
// when it is not configured.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.LLM.APIKey == "" {
		errs = append(errs, ValidationError{Field: "OPENAI_API_KEY", Message: "must be set"}.Error())
	}
	if cfg.LLM.APIURL == "" {
		errs = append(errs, ValidationError{Field: "OPENAI_API_URL", Message: "must not be empty"}.Error())
	}
	if cfg.Server.Port == "" {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must not be empty"}.Error())
	}
	if cfg.Database.Host == "" || cfg.Database.Port == "" {
		errs = append(errs, ValidationError{Field: "DB_HOST/DB_PORT", Message: "must be set"}.Error())
	}
	if cfg.Database.DBName == "" {
		errs = append(errs, ValidationError{Field: "DB_NAME", Message: "must be set"}.Error())
	}
	if cfg.OTP.TTL <= 0 {
		errs = append(errs, ValidationError{Field: "OTP_TTL", Message: "must be a positive duration"}.Error())
	}
	if cfg.SMTP.Host != "" && cfg.SMTP.From == "" {
		errs = append(errs, ValidationError{Field: "SMTP_FROM", Message: "required when SMTP_HOST is set"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
