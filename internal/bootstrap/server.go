package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	app "github.com/placementhq/identity-import/internal/application/importing"
	"github.com/placementhq/identity-import/internal/config"
	infrafile "github.com/placementhq/identity-import/internal/infrastructure/file"
	"github.com/placementhq/identity-import/internal/infrastructure/notification"
	"github.com/placementhq/identity-import/internal/infrastructure/repository"
	httpecho "github.com/placementhq/identity-import/internal/interfaces/http/echo"
	"github.com/placementhq/identity-import/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func NewHTTPServer(db *gorm.DB, pool *pgxpool.Pool, dispatcher *notification.Dispatcher, collector *metrics.Collector, registry *prometheus.Registry, cfg *config.Config) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit(cfg.BodyLimit))

	identityRepo := repository.NewIdentityRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	allocator := repository.NewCounterAllocator(pool)
	batchSource := infrafile.NewBatchSource(cfg.ImportBaseDir)

	submitBatch := app.NewSubmitBatch(identityRepo, ledgerRepo, allocator, departmentRepo, dispatcher, collector, app.SubmitBatchConfig{
		MaxBatchSize: cfg.MaxBatchSize,
	})
	submitFromFile := app.NewSubmitBatchFromFile(batchSource, submitBatch)
	getBatch := app.NewGetBatch(ledgerRepo)
	listBatches := app.NewListBatches(ledgerRepo)
	rollbackBatch := app.NewRollbackBatch(ledgerRepo, collector)

	importHandler := httpecho.NewImportHandler(submitBatch, submitFromFile)
	ledgerHandler := httpecho.NewLedgerHandler(getBatch, listBatches, rollbackBatch)

	httpecho.RegisterRoutes(server, importHandler, ledgerHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	server.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return server
}
