package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xndroli/lucrative-growth-app/internal/api/middleware"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/sync"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

type SyncHandler struct {
	engine *sync.Engine
	logger *logger.Logger
}

func NewSyncHandler(engine *sync.Engine, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		engine: engine,
		logger: logger,
	}
}

// Trigger runs one sync type for the merchant right now, outside any
// schedule. The run is still recorded in the job ledger.
func (h *SyncHandler) Trigger(c *gin.Context) {
	merchantID := middleware.MerchantID(c)

	syncType, err := models.ParseSyncType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var settings models.SyncSettings
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.engine.Run(c.Request.Context(), merchantID, syncType, settings, nil)
	if err != nil {
		h.logger.Error("Manual %s sync failed for %s: %v", syncType, merchantID, err)
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// SyncVehicles refreshes the merchant's YMM vehicle reference data.
func (h *SyncHandler) SyncVehicles(c *gin.Context) {
	merchantID := middleware.MerchantID(c)

	result, err := h.engine.SyncVehicleDatabase(c.Request.Context(), merchantID)
	if err != nil {
		h.logger.Error("Vehicle sync failed for %s: %v", merchantID, err)
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// SyncCompatibility refreshes fitment edges for active products. The batch
// is capped by the limit query when given, otherwise by the request body's
// compatibility_limit setting (default 100), and optionally narrowed by
// brand.
func (h *SyncHandler) SyncCompatibility(c *gin.Context) {
	merchantID := middleware.MerchantID(c)

	var settings models.SyncSettings
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := settings.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit <= 0 {
		limit = settings.CompatibilityLimit
	}
	opts := sync.BulkCompatibilityOptions{
		Limit:       limit,
		BrandFilter: c.Query("brand"),
	}

	result, err := h.engine.BulkSyncCompatibility(c.Request.Context(), merchantID, opts)
	if err != nil {
		h.logger.Error("Compatibility sync failed for %s: %v", merchantID, err)
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// SyncProductCompatibility refreshes fitment edges for a single SKU.
func (h *SyncHandler) SyncProductCompatibility(c *gin.Context) {
	merchantID := middleware.MerchantID(c)
	sku := c.Param("sku")

	result, err := h.engine.SyncProductCompatibility(c.Request.Context(), merchantID, sku)
	if err != nil {
		h.logger.Error("Compatibility sync for SKU %s failed: %v", sku, err)
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// respondSyncError maps the sync error taxonomy onto HTTP statuses.
func respondSyncError(c *gin.Context, err error) {
	var cfgErr *sync.ConfigError
	var authErr *turn14.AuthError
	var rateErr *turn14.RateLimitError
	var notFoundErr *turn14.NotFoundError

	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &rateErr):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
