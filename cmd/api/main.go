package main

import (
	"log"

	"github.com/xndroli/lucrative-growth-app/internal/api"
	"github.com/xndroli/lucrative-growth-app/internal/config"
	"github.com/xndroli/lucrative-growth-app/internal/database"
	"github.com/xndroli/lucrative-growth-app/internal/events"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
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

	// Distributor client and storefront factory. Merchants are keyed by
	// their myshopify domain, so the factory can build a storefront client
	// straight from the merchant ID.
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

	// Initialize API server
	server := api.New(cfg, logger, db, engine, distributor)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server:", err)
	}
}
