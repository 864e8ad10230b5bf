package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"memorial/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Gateway  GatewayConfig
	Mail     MailConfig
	Checkout CheckoutConfig

	// loadErrs holds settings that were set but could not be parsed.
	loadErrs []error
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// GatewayConfig holds payment gateway credentials and callback URLs.
// None of these have defaults; Validate rejects a config that omits them.
type GatewayConfig struct {
	MerchantID            string
	MerchantKey           string
	Passphrase            string
	ProcessURL            string
	ReturnURL             string
	CancelURL             string
	NotifyURL             string
	SubscriptionNotifyURL string
	// AllowedSources is a comma separated CIDR list notifications must come from.
	AllowedSources string
}

// MailConfig holds SMTP relay configuration. An empty Host logs mail instead of sending it.
type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	RequireTLS bool
	SiteName   string
}

// CheckoutConfig holds marketplace pricing configuration.
type CheckoutConfig struct {
	CommissionRate decimal.Decimal
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "memorial"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "memorial-payments"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Gateway: GatewayConfig{
			MerchantID:            os.Getenv("GATEWAY_MERCHANT_ID"),
			MerchantKey:           os.Getenv("GATEWAY_MERCHANT_KEY"),
			Passphrase:            os.Getenv("GATEWAY_PASSPHRASE"),
			ProcessURL:            os.Getenv("GATEWAY_PROCESS_URL"),
			ReturnURL:             os.Getenv("GATEWAY_RETURN_URL"),
			CancelURL:             os.Getenv("GATEWAY_CANCEL_URL"),
			NotifyURL:             os.Getenv("GATEWAY_NOTIFY_URL"),
			SubscriptionNotifyURL: os.Getenv("GATEWAY_SUBSCRIPTION_NOTIFY_URL"),
			AllowedSources:        os.Getenv("GATEWAY_ALLOWED_SOURCES"),
		},
		Mail: MailConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getIntEnv("SMTP_PORT", 587),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getEnv("MAIL_FROM", "orders@localhost"),
			RequireTLS: getBoolEnv("SMTP_REQUIRE_TLS", true),
			SiteName:   getEnv("SITE_NAME", "Memorial Marketplace"),
		},
	}

	rate, err := getDecimalEnv("COMMISSION_RATE", domain.CommissionRate)
	if err != nil {
		cfg.loadErrs = append(cfg.loadErrs, err)
	}
	cfg.Checkout.CommissionRate = rate

	return cfg
}

// Validate reports every required setting that is missing or out of range.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.loadErrs...)

	required := []struct {
		name  string
		value string
	}{
		{"GATEWAY_MERCHANT_ID", c.Gateway.MerchantID},
		{"GATEWAY_MERCHANT_KEY", c.Gateway.MerchantKey},
		{"GATEWAY_PROCESS_URL", c.Gateway.ProcessURL},
		{"GATEWAY_RETURN_URL", c.Gateway.ReturnURL},
		{"GATEWAY_CANCEL_URL", c.Gateway.CancelURL},
		{"GATEWAY_NOTIFY_URL", c.Gateway.NotifyURL},
		{"GATEWAY_SUBSCRIPTION_NOTIFY_URL", c.Gateway.SubscriptionNotifyURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	rate := c.Checkout.CommissionRate
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errs = append(errs, fmt.Errorf("COMMISSION_RATE must be in [0, 1), got %s", rate))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDecimalEnv(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a decimal, got %q", key, value)
	}
	return d, nil
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
