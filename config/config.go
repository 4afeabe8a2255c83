package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	SMTP     SMTPConfig
	OTP      OTPConfig
}

type ServerConfig struct {
	Host        string
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LLMConfig configures the completion API client.
type LLMConfig struct {
	APIKey string
	APIURL string
	Model  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// OTPConfig controls password-reset code issuance. ExposeCode returns the
// generated code in the response body instead of relying on email delivery;
// it exists for test deployments only.
type OTPConfig struct {
	TTL        time.Duration
	ExposeCode bool
}

// LoadConfig creates a new Config instance from a .env file if present,
// falling back to environment variables
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Warning: could not read config file: %v. Using environment variables only.", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        viper.GetString("SERVER_HOST"),
			Port:        viper.GetString("SERVER_PORT"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		LLM: LLMConfig{
			APIKey: viper.GetString("OPENAI_API_KEY"),
			APIURL: viper.GetString("OPENAI_API_URL"),
			Model:  viper.GetString("OPENAI_MODEL"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		OTP: OTPConfig{
			TTL:        viper.GetDuration("OTP_TTL"),
			ExposeCode: viper.GetBool("OTP_EXPOSE_CODE"),
		},
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_NAME", "nutridiet")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM", "no-reply@nutridiet.app")
	viper.SetDefault("OTP_TTL", "10m")
	viper.SetDefault("OTP_EXPOSE_CODE", false)
}
