// Package config loads the service configuration from environment
// variables once at startup; the result is treated as immutable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort string
	BodyLimit  string

	// Import pipeline
	MaxBatchSize  int
	ImportBaseDir string

	// Reconciliation
	ReconcileInterval time.Duration
	StaleBatchAfter   time.Duration

	// Notifications
	NotifyWorkers    int
	NotifyQueueSize  int
	NotifyTimeout    time.Duration
	NotifyWebhookURL string
}

// Load reads the configuration from environment variables. Missing required
// variables are an error.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("required environment variable DATABASE_URL is not set")
	}

	cfg.ServerPort = getEnv("PORT", "8080")
	cfg.BodyLimit = getEnv("BODY_LIMIT", "10M")

	cfg.MaxBatchSize = getEnvInt("IMPORT_MAX_BATCH_SIZE", 1000)
	cfg.ImportBaseDir = getEnv("IMPORT_BASE_DIR", ".")

	cfg.ReconcileInterval = getEnvDuration("RECONCILE_INTERVAL", 5*time.Minute)
	cfg.StaleBatchAfter = getEnvDuration("STALE_BATCH_AFTER", 30*time.Minute)

	cfg.NotifyWorkers = getEnvInt("NOTIFY_WORKERS", 4)
	cfg.NotifyQueueSize = getEnvInt("NOTIFY_QUEUE_SIZE", 1024)
	cfg.NotifyTimeout = getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second)
	cfg.NotifyWebhookURL = os.Getenv("NOTIFY_WEBHOOK_URL")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
