// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion string
	S3Bucket  string

	// Database
	DBURL      string
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Notifications
	SESSenderEmail    string
	ResultsWebhookURL string
	NotifyOnRecommend bool
	DashboardURL      string

	// Application
	Stage          string
	LogLevel       string
	Port           string
	ServiceVersion string

	s3BucketSet bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// AWS
		AWSRegion: getEnv("AWS_REGION", "eu-central-1"),
		S3Bucket:  getEnv("S3_BUCKET", "mountain-questionnaires-dev"),

		// Database
		DBURL:      getEnv("DATABASE_URL", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBName:     getEnv("DB_NAME", "mountain_recommendations"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),

		// Notifications
		SESSenderEmail:    getEnv("SES_SENDER_EMAIL", ""),
		ResultsWebhookURL: getEnv("RESULTS_WEBHOOK_URL", ""),
		NotifyOnRecommend: getEnvBool("NOTIFY_ON_RECOMMEND", false),
		DashboardURL:      getEnv("DASHBOARD_URL", ""),

		// Application
		Stage:          getEnv("STAGE", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8080"),
		ServiceVersion: getEnv("SERVICE_VERSION", "1.0.0"),
	}

	cfg.s3BucketSet = os.Getenv("S3_BUCKET") != ""

	return cfg, nil
}

// UploadBucketConfigured reports whether S3_BUCKET was set explicitly.
// The dev server only keeps copies of uploads when it was.
func (c *Config) UploadBucketConfigured() bool {
	return c.s3BucketSet
}

// DatabaseURL returns the PostgreSQL connection string.
// DATABASE_URL, when set, wins over the individual DB_* settings.
func (c *Config) DatabaseURL() string {
	if c.DBURL != "" {
		return c.DBURL
	}

	sslMode := "require"
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable"
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// DatabaseConfigured reports whether enough settings exist to attempt a connection.
func (c *Config) DatabaseConfigured() bool {
	return c.DBURL != "" || c.DBPassword != ""
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

// getEnvBool retrieves an environment variable as bool or returns a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
