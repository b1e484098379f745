package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/robfig/cron/v3"
)

// Store backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	Port     string
	LogLevel string

	StoreBackend string
	StoreDir     string
	StoreKey     string
	DBConn       string
	RedisAddr    string

	Currency     string
	RefreshSpec  string
	ReminderSpec string
	ReminderDays int

	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
	ReminderEmail string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		StoreBackend: getEnv("STORE_BACKEND", BackendFile),
		StoreDir:     getEnv("STORE_DIR", "data"),
		StoreKey:     getEnv("STORE_KEY", "loans"),
		DBConn:       getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=emi sslmode=disable"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),

		Currency:     getEnv("CURRENCY", "INR"),
		RefreshSpec:  getEnv("REFRESH_SPEC", "@every 1m"),
		ReminderSpec: getEnv("REMINDER_SPEC", "0 9 * * *"),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", ""),
		ReminderEmail: getEnv("REMINDER_EMAIL", ""),
	}

	days, err := strconv.Atoi(getEnv("REMINDER_DAYS", "3"))
	if err != nil || days < 0 {
		return nil, fmt.Errorf("REMINDER_DAYS must be a non-negative integer")
	}
	cfg.ReminderDays = days

	switch cfg.StoreBackend {
	case BackendFile:
		if cfg.StoreDir == "" {
			return nil, fmt.Errorf("STORE_DIR is required")
		}
	case BackendPostgres:
		if cfg.DBConn == "" {
			return nil, fmt.Errorf("DB_CONN is required")
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required")
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.StoreKey == "" {
		return nil, fmt.Errorf("STORE_KEY is required")
	}
	if money.GetCurrency(cfg.Currency) == nil {
		return nil, fmt.Errorf("unknown CURRENCY %q", cfg.Currency)
	}
	if _, err := cron.ParseStandard(cfg.RefreshSpec); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_SPEC: %w", err)
	}
	if cfg.ReminderSpec != "" {
		if _, err := cron.ParseStandard(cfg.ReminderSpec); err != nil {
			return nil, fmt.Errorf("invalid REMINDER_SPEC: %w", err)
		}
	}

	return cfg, nil
}

// MailEnabled reports whether reminder e-mails can be sent
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.ReminderEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
