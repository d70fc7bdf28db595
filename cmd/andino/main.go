package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/andino-erp/andino-erp/internal/app"
	"github.com/andino-erp/andino-erp/internal/documents"
	"github.com/andino-erp/andino-erp/internal/inventory"
	"github.com/andino-erp/andino-erp/internal/ledger/accounts"
	"github.com/andino-erp/andino-erp/internal/ledger/journals"
	"github.com/andino-erp/andino-erp/internal/ledger/reports"
	"github.com/andino-erp/andino-erp/internal/masterdata/taxes"
	"github.com/andino-erp/andino-erp/internal/masterdata/thirdparties"
	"github.com/andino-erp/andino-erp/internal/observability"
	"github.com/andino-erp/andino-erp/internal/platform/cache"
	"github.com/andino-erp/andino-erp/internal/platform/db"
	"github.com/andino-erp/andino-erp/internal/platform/pdf"
	"github.com/andino-erp/andino-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports uncached", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	journalsRepo := journals.NewRepository(pool)
	journalsService := journals.NewService(journalsRepo)
	journalsHandler := journals.NewHandler(logger, journalsService)

	taxesRepo := taxes.NewRepository(pool)
	taxesService := taxes.NewService(taxesRepo)
	taxesHandler := taxes.NewHandler(logger, taxesService)

	partiesRepo := thirdparties.NewRepository(pool)
	partiesHandler := thirdparties.NewHandler(logger, partiesRepo)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryHandler := inventory.NewHandler(logger, inventoryRepo)

	documentsRepo := documents.NewRepository(pool)
	documentsService := documents.NewService(documentsRepo, taxesService, partiesRepo)
	documentsHandler := documents.NewHandler(logger, documentsService)

	var reportCache reports.Cache
	if redisClient != nil {
		reportCache = cache.NewTTLCache(redisClient, cfg.ReportCacheTTL)
	}
	var pdfRenderer reports.PDFRenderer
	if cfg.GotenbergURL != "" {
		pdfRenderer = pdf.NewClient(cfg.GotenbergURL)
	}
	reportsRepo := reports.NewRepository(pool)
	reportsService := reports.NewService(logger, reportsRepo, reportCache)
	reportsHandler := reports.NewHandler(logger, reportsService, pdfRenderer)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Metrics:             metrics,
		AccountsHandler:     accountsHandler,
		JournalsHandler:     journalsHandler,
		DocumentsHandler:    documentsHandler,
		ReportsHandler:      reportsHandler,
		TaxesHandler:        taxesHandler,
		ThirdPartiesHandler: partiesHandler,
		InventoryHandler:    inventoryHandler,
		JobHandler:          jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
