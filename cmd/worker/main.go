package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xndroli/lucrative-growth-app/internal/config"
	"github.com/xndroli/lucrative-growth-app/internal/database"
	"github.com/xndroli/lucrative-growth-app/internal/events"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/scheduler"
	"github.com/xndroli/lucrative-growth-app/internal/shopify"
	"github.com/xndroli/lucrative-growth-app/internal/store"
	"github.com/xndroli/lucrative-growth-app/internal/sync"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}

	distributor := turn14.NewClient(cfg.Turn14APIURL, cfg.Turn14SandboxURL, logger)
	storefronts := func(merchantID string) shopify.Publisher {
		return shopify.NewClient(merchantID, cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion, logger)
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.SyncEventsTopic, logger)
	defer publisher.Close()

	engine := sync.NewEngine(
		distributor,
		storefronts,
		store.NewCatalogStore(db.DB),
		store.NewVehicleStore(db.DB),
		store.NewJobStore(db.DB),
		store.NewConfigStore(db.DB),
		publisher,
		logger,
	)

	runner := scheduler.NewRunner(
		store.NewScheduleStore(db.DB),
		engine,
		scheduler.RealClock(),
		time.Duration(cfg.SchedulerPollSeconds)*time.Second,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())

	// Start worker
	logger.Info("Starting scheduler worker...")
	go runner.Start(ctx)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler worker...")
	cancel()
}
