package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xndroli/lucrative-growth-app/internal/api/handlers"
	"github.com/xndroli/lucrative-growth-app/internal/api/middleware"
	"github.com/xndroli/lucrative-growth-app/internal/config"
	"github.com/xndroli/lucrative-growth-app/internal/database"
	"github.com/xndroli/lucrative-growth-app/internal/fitment"
	"github.com/xndroli/lucrative-growth-app/internal/garage"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/store"
	"github.com/xndroli/lucrative-growth-app/internal/sync"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, engine *sync.Engine, distributor *turn14.Client) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Stores and services
	catalog := store.NewCatalogStore(db.DB)
	vehicles := store.NewVehicleStore(db.DB)
	schedules := store.NewScheduleStore(db.DB)
	jobs := store.NewJobStore(db.DB)
	configs := store.NewConfigStore(db.DB)
	garages := store.NewGarageStore(db.DB)

	matcher := fitment.NewMatcher(vehicles, catalog, logger)
	garageService := garage.NewService(garages, catalog, logger)

	// Initialize handlers
	syncHandler := handlers.NewSyncHandler(engine, logger)
	jobHandler := handlers.NewJobHandler(jobs, logger)
	scheduleHandler := handlers.NewScheduleHandler(schedules, logger)
	distributorHandler := handlers.NewDistributorHandler(configs, distributor, logger)
	fitmentHandler := handlers.NewFitmentHandler(matcher, logger)
	garageHandler := handlers.NewGarageHandler(garageService, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireMerchant())
	{
		// Sync triggers
		syncs := v1.Group("/sync")
		{
			syncs.POST("/vehicles", syncHandler.SyncVehicles)
			syncs.POST("/compatibility", syncHandler.SyncCompatibility)
			syncs.POST("/compatibility/:sku", syncHandler.SyncProductCompatibility)
			syncs.POST("/:type", syncHandler.Trigger)
		}

		// Job ledger
		jobRoutes := v1.Group("/jobs")
		{
			jobRoutes.GET("", jobHandler.List)
			jobRoutes.GET("/stats", jobHandler.Stats)
			jobRoutes.GET("/:id", jobHandler.Get)
		}

		// Schedules
		scheduleRoutes := v1.Group("/schedules")
		{
			scheduleRoutes.GET("", scheduleHandler.List)
			scheduleRoutes.GET("/:id", scheduleHandler.Get)
			scheduleRoutes.POST("", scheduleHandler.Create)
			scheduleRoutes.PUT("/:id", scheduleHandler.Update)
			scheduleRoutes.DELETE("/:id", scheduleHandler.Delete)
		}

		// Distributor connection
		distributorRoutes := v1.Group("/distributor")
		{
			distributorRoutes.GET("/config", distributorHandler.Get)
			distributorRoutes.PUT("/config", distributorHandler.Upsert)
			distributorRoutes.POST("/config/validate", distributorHandler.Validate)
			distributorRoutes.GET("/brands", distributorHandler.Brands)
		}

		// Fitment lookups
		fitmentRoutes := v1.Group("/fitment")
		{
			fitmentRoutes.GET("/products", fitmentHandler.Products)
			fitmentRoutes.GET("/check", fitmentHandler.Check)
		}

		// Customer garage
		garageRoutes := v1.Group("/garage")
		{
			garageRoutes.GET("", garageHandler.Get)
			garageRoutes.POST("/vehicles", garageHandler.AddVehicle)
			garageRoutes.PUT("/vehicles/:id", garageHandler.UpdateVehicle)
			garageRoutes.DELETE("/vehicles/:id", garageHandler.RemoveVehicle)
			garageRoutes.POST("/vehicles/:id/primary", garageHandler.SetPrimary)
			garageRoutes.GET("/vehicles/:id/reminders", garageHandler.ListReminders)
			garageRoutes.POST("/reminders/:id/complete", garageHandler.CompleteReminder)
			garageRoutes.POST("/vehicles/:id/alerts", garageHandler.AddAlert)
			garageRoutes.POST("/alerts/check", garageHandler.CheckAlerts)
			garageRoutes.GET("/vehicles/:id/purchases", garageHandler.ListPurchases)
			garageRoutes.POST("/vehicles/:id/purchases", garageHandler.RecordPurchase)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on %s", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}
