package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xndroli/lucrative-growth-app/internal/api/middleware"
	"github.com/xndroli/lucrative-growth-app/internal/fitment"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/store"
)

type FitmentHandler struct {
	matcher *fitment.Matcher
	logger  *logger.Logger
}

func NewFitmentHandler(matcher *fitment.Matcher, logger *logger.Logger) *FitmentHandler {
	return &FitmentHandler{
		matcher: matcher,
		logger:  logger,
	}
}

// Products answers the storefront's "parts for my vehicle" query.
func (h *FitmentHandler) Products(c *gin.Context) {
	merchantID := middleware.MerchantID(c)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	query := store.FitmentQuery{
		Year:     year,
		Make:     c.Query("make"),
		Model:    c.Query("model"),
		Submodel: c.Query("submodel"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Limit:    limit,
	}

	products, err := h.matcher.FindCompatibleProducts(c.Request.Context(), merchantID, query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products, "count": len(products)})
}

// Check answers "does this SKU fit this vehicle".
func (h *FitmentHandler) Check(c *gin.Context) {
	merchantID := middleware.MerchantID(c)
	vehicleID := c.Query("vehicle_id")
	sku := c.Query("sku")
	if vehicleID == "" || sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_id and sku are required"})
		return
	}

	check, err := h.matcher.CheckCompatibility(c.Request.Context(), merchantID, vehicleID, sku)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check compatibility"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": check})
}
