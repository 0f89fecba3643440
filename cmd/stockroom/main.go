package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stockroom/stockroom/internal/app"
	"github.com/stockroom/stockroom/internal/catalog/products"
	"github.com/stockroom/stockroom/internal/catalog/suppliers"
	"github.com/stockroom/stockroom/internal/ledger"
	"github.com/stockroom/stockroom/internal/observability"
	"github.com/stockroom/stockroom/internal/platform/db"
	"github.com/stockroom/stockroom/internal/platform/rdb"
	"github.com/stockroom/stockroom/internal/reports"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, dbpool); err != nil {
			logger.Error("migrate schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("schema up to date")
	}

	redisClient, err := rdb.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, movement events disabled", slog.Any("error", err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()

	ledgerService := ledger.NewService(
		ledger.NewRepository(dbpool),
		ledger.NewRedisPublisher(redisClient, cfg.EventsChannel),
		metrics,
		logger,
	)
	productService := products.NewService(products.NewRepository(dbpool))
	supplierService := suppliers.NewService(suppliers.NewRepository(dbpool))
	reportService := reports.NewService(reports.NewRepository(dbpool))

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Metrics:         metrics,
		Health:          dbpool.Ping,
		LedgerHandler:   ledger.NewHandler(logger, ledgerService),
		ProductHandler:  products.NewHandler(logger, productService),
		SupplierHandler: suppliers.NewHandler(logger, supplierService),
		ReportHandler:   reports.NewHandler(logger, reportService, cfg.LowStockThreshold),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
