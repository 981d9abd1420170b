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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ftsampaio/sales-import/internal/application/importer"
	"github.com/ftsampaio/sales-import/internal/bootstrap"
	"github.com/ftsampaio/sales-import/internal/config"
	"github.com/ftsampaio/sales-import/internal/infrastructure/marketplace"
	"github.com/ftsampaio/sales-import/internal/infrastructure/repository"
	"github.com/ftsampaio/sales-import/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer zlog.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{})
	if err != nil {
		zlog.Fatal("connect database", zap.Error(err))
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		zlog.Fatal("create pgx pool", zap.Error(err))
	}
	defer pool.Close()

	tokens := marketplace.NewStaticTokenProvider(cfg.Marketplace.Token)
	fetcher, err := marketplace.NewClient(marketplace.Options{
		BaseURL:      cfg.Marketplace.BaseURL,
		SellerID:     cfg.Marketplace.SellerID,
		PageSize:     cfg.Marketplace.PageSize,
		Timeout:      cfg.Marketplace.Timeout,
		MaxAttempts:  cfg.Marketplace.MaxAttempts,
		RetryBackoff: cfg.Marketplace.RetryBackoff,
	}, tokens, zlog.Named("marketplace"))
	if err != nil {
		zlog.Fatal("build marketplace client", zap.Error(err))
	}

	runCtx, stopRuns := context.WithCancel(context.Background())
	defer stopRuns()

	orchestrator := importer.NewOrchestrator(
		runCtx,
		fetcher,
		repository.NewSaleUpsertRepository(pool),
		repository.NewCategoryRepository(db),
		importer.Config{
			FeeRate:     decimal.NewFromFloat(cfg.Import.FeeRate),
			CallTimeout: cfg.Import.CallTimeout,
			EntityTypes: cfg.Import.EntityTypes,
		},
		zlog.Named("importer"),
	)

	server := bootstrap.NewHTTPServer(orchestrator)

	go func() {
		if err := server.Start(":" + cfg.App.Port); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopRuns()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatal("graceful shutdown failed", zap.Error(err))
	}
}
