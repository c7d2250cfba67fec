// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"loan-affordability-engine/internal/services/affordability"
)

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion string
	S3Bucket  string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBMaxConns int

	// Cache
	RedisAddr string
	CacheSize int
	CacheTTL  time.Duration

	// Notifications
	SESSenderEmail   string
	NotifyApplicants bool
	ReportWebhookURL string

	// Underwriting
	MaxLoanIncomeMultiple float64

	// Application
	Port     string
	Stage    string
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// AWS
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:  getEnv("S3_BUCKET", "loan-affordability-batches-dev"),

		// Database
		DBHost:     getEnv("DB_HOST", getEnv("LOAN_DB_HOST", "localhost")),
		DBPort:     getEnvInt("DB_PORT", getEnvInt("LOAN_DB_PORT", 5432)),
		DBName:     getEnv("DB_NAME", getEnv("LOAN_DB_NAME", "loan_affordability")),
		DBUser:     getEnv("DB_USER", getEnv("LOAN_DB_USER", "postgres")),
		DBPassword: getEnv("DB_PASSWORD", getEnv("LOAN_DB_PASSWORD", "")),
		DBMaxConns: getEnvInt("DB_MAX_CONNS", 4),

		// Cache
		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheSize: getEnvInt("CACHE_SIZE", 1024),
		CacheTTL:  getEnvDuration("CACHE_TTL", 10*time.Minute),

		// Notifications
		SESSenderEmail:   getEnv("SES_SENDER_EMAIL", ""),
		NotifyApplicants: getEnvBool("NOTIFY_APPLICANTS", false),
		ReportWebhookURL: getEnv("REPORT_WEBHOOK_URL", ""),

		// Underwriting
		MaxLoanIncomeMultiple: getEnvFloat("MAX_LOAN_INCOME_MULTIPLE", affordability.DefaultSearchIncomeMultiple),

		// Application
		Port:     getEnv("PORT", "8080"),
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Policy returns the underwriting policy for this configuration.
func (c *Config) Policy() affordability.Policy {
	return affordability.DefaultPolicy().WithSearchIncomeMultiple(c.MaxLoanIncomeMultiple)
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	sslMode := "require" // Use SSL for RDS
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable"
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as float64 or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as bool or returns a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration retrieves an environment variable as a duration ("90s", "5m")
// or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
