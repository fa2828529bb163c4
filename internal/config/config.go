package config

import (
	"os"
	"strconv"
	"time"

	"aforo/internal/database"
	"aforo/internal/messaging"
	"aforo/internal/storage"
)

// ImportConfig tunes the attendee import pipeline.
type ImportConfig struct {
	// FallbackEventName is the catch-all event rows attach to when name
	// resolution fails. Empty disables the fallback.
	FallbackEventName string
	// SoftTimeLimit bounds the commit phase, checked after every row.
	SoftTimeLimit time.Duration
	// MaxUploadBytes caps accepted spreadsheet size.
	MaxUploadBytes int64
}

// Config holds the application configuration
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	Database database.Config
	NATS     messaging.Config
	Storage  storage.Config
	Import   ImportConfig
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "aforo"),
			Password:           getEnv("DB_PASSWORD", "aforo123"),
			DBName:             getEnv("DB_NAME", "aforo"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", ""),
			ClusterID: getEnv("NATS_CLUSTER_ID", "aforo"),
			ClientID:  getEnv("NATS_CLIENT_ID", "aforo-api"),
		},

		Storage: storage.Config{
			Bucket:        getEnv("STORAGE_BUCKET", "aforo-imports"),
			Region:        getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:      getEnv("STORAGE_ENDPOINT", ""),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		},

		Import: ImportConfig{
			FallbackEventName: getEnv("IMPORT_FALLBACK_EVENT", ""),
			SoftTimeLimit:     time.Duration(getEnvInt("IMPORT_MAX_SECONDS", 50)) * time.Second,
			MaxUploadBytes:    int64(getEnvInt("IMPORT_MAX_UPLOAD_MB", 20)) * 1024 * 1024,
		},
	}
}

// getEnv returns the environment variable value or the default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or the default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
