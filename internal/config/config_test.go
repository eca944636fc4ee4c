package config_test

import (
	"testing"
	"time"

	"github.com/placementhq/identity-import/internal/config"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Fatalf("unexpected port: %s", cfg.ServerPort)
	}
	if cfg.MaxBatchSize != 1000 {
		t.Fatalf("unexpected max batch size: %d", cfg.MaxBatchSize)
	}
	if cfg.StaleBatchAfter != 30*time.Minute {
		t.Fatalf("unexpected stale cutoff: %v", cfg.StaleBatchAfter)
	}
	if cfg.NotifyWorkers != 4 {
		t.Fatalf("unexpected notify workers: %d", cfg.NotifyWorkers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/test")
	t.Setenv("PORT", "9090")
	t.Setenv("IMPORT_MAX_BATCH_SIZE", "250")
	t.Setenv("STALE_BATCH_AFTER", "1h")
	t.Setenv("NOTIFY_WORKERS", "not-a-number")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Fatalf("unexpected port: %s", cfg.ServerPort)
	}
	if cfg.MaxBatchSize != 250 {
		t.Fatalf("unexpected max batch size: %d", cfg.MaxBatchSize)
	}
	if cfg.StaleBatchAfter != time.Hour {
		t.Fatalf("unexpected stale cutoff: %v", cfg.StaleBatchAfter)
	}
	if cfg.NotifyWorkers != 4 {
		t.Fatalf("expected fallback on bad int, got %d", cfg.NotifyWorkers)
	}
}
