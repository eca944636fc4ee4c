package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	app "github.com/placementhq/identity-import/internal/application/importing"
	"github.com/placementhq/identity-import/internal/bootstrap"
	"github.com/placementhq/identity-import/internal/config"
	domain "github.com/placementhq/identity-import/internal/domain/identity"
	"github.com/placementhq/identity-import/internal/infrastructure/database"
	"github.com/placementhq/identity-import/internal/infrastructure/notification"
	"github.com/placementhq/identity-import/internal/infrastructure/repository"
	"github.com/placementhq/identity-import/internal/metrics"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create pgx pool: %v", err)
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	identityRepo := repository.NewIdentityRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	var notifier domain.Notifier = notification.LogNotifier{}
	if cfg.NotifyWebhookURL != "" {
		notifier = notification.NewWebhookNotifier(cfg.NotifyWebhookURL, &http.Client{Timeout: cfg.NotifyTimeout})
	}
	dispatcher := notification.NewDispatcher(notifier, identityRepo, collector, notification.DispatcherConfig{
		Workers:         cfg.NotifyWorkers,
		QueueSize:       cfg.NotifyQueueSize,
		DeliveryTimeout: cfg.NotifyTimeout,
	})
	dispatcher.Start(workerCtx)

	reconciler := app.NewReconciler(ledgerRepo, app.ReconcilerConfig{
		Interval:   cfg.ReconcileInterval,
		StaleAfter: cfg.StaleBatchAfter,
	})
	reconciler.Start(workerCtx)

	server := bootstrap.NewHTTPServer(db, pool, dispatcher, collector, registry, cfg)

	go func() {
		if err := server.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}
