package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xndroli/lucrative-growth-app/internal/api/middleware"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/store"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

type DistributorHandler struct {
	configs *store.ConfigStore
	client  *turn14.Client
	logger  *logger.Logger
}

func NewDistributorHandler(configs *store.ConfigStore, client *turn14.Client, logger *logger.Logger) *DistributorHandler {
	return &DistributorHandler{
		configs: configs,
		client:  client,
		logger:  logger,
	}
}

type distributorInput struct {
	APIKey         string   `json:"api_key" binding:"required"`
	APISecret      string   `json:"api_secret" binding:"required"`
	Environment    string   `json:"environment"`
	SelectedBrands []string `json:"selected_brands"`
	IsActive       *bool    `json:"is_active"`
}

func (h *DistributorHandler) Get(c *gin.Context) {
	cfg, err := h.configs.Get(c.Request.Context(), middleware.MerchantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch configuration"})
		return
	}
	if cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Distributor connection is not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

// Upsert saves the merchant's distributor credentials and brand selection.
func (h *DistributorHandler) Upsert(c *gin.Context) {
	merchantID := middleware.MerchantID(c)

	var input distributorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	env := models.Turn14EnvProduction
	if input.Environment != "" {
		switch models.Turn14Env(input.Environment) {
		case models.Turn14EnvSandbox, models.Turn14EnvProduction:
			env = models.Turn14Env(input.Environment)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "environment must be sandbox or production"})
			return
		}
	}

	cfg := &models.DistributorConfig{
		MerchantID:     merchantID,
		APIKey:         input.APIKey,
		APISecret:      input.APISecret,
		Environment:    env,
		SelectedBrands: input.SelectedBrands,
		IsActive:       true,
	}
	if input.IsActive != nil {
		cfg.IsActive = *input.IsActive
	}

	if err := h.configs.Upsert(c.Request.Context(), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save configuration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

// Validate checks the stored credentials against the distributor and records
// the outcome on the config row.
func (h *DistributorHandler) Validate(c *gin.Context) {
	ctx := c.Request.Context()
	merchantID := middleware.MerchantID(c)

	cfg, err := h.configs.Get(ctx, merchantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch configuration"})
		return
	}
	if cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Distributor connection is not configured"})
		return
	}

	if err := h.client.Authenticate(ctx, cfg.APIKey, cfg.APISecret, cfg.Environment); err != nil {
		msg := err.Error()
		if recErr := h.configs.RecordValidation(ctx, merchantID, false, &msg, time.Now()); recErr != nil {
			h.logger.Error("Failed to record validation failure for %s: %v", merchantID, recErr)
		}

		var authErr *turn14.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg, "valid": false})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg, "valid": false})
		return
	}

	if err := h.configs.RecordValidation(ctx, merchantID, true, nil, time.Now()); err != nil {
		h.logger.Error("Failed to record validation for %s: %v", merchantID, err)
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// Brands lists the brands the merchant's credentials can import from.
func (h *DistributorHandler) Brands(c *gin.Context) {
	ctx := c.Request.Context()
	merchantID := middleware.MerchantID(c)

	cfg, err := h.configs.Get(ctx, merchantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch configuration"})
		return
	}
	if cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Distributor connection is not configured"})
		return
	}

	if err := h.client.Authenticate(ctx, cfg.APIKey, cfg.APISecret, cfg.Environment); err != nil {
		respondSyncError(c, err)
		return
	}

	brands, err := h.client.ListBrands(ctx)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brands})
}
