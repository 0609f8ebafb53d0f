package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xndroli/lucrative-growth-app/internal/api/middleware"
	"github.com/xndroli/lucrative-growth-app/internal/garage"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
)

type GarageHandler struct {
	service *garage.Service
	logger  *logger.Logger
}

func NewGarageHandler(service *garage.Service, logger *logger.Logger) *GarageHandler {
	return &GarageHandler{
		service: service,
		logger:  logger,
	}
}

// customerID reads the storefront customer scope. Garage routes are proxied
// through the storefront, which injects the header.
func customerID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-Customer-ID")
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Customer-ID header is required"})
		return "", false
	}
	return id, true
}

func (h *GarageHandler) Get(c *gin.Context) {
	customer, ok := customerID(c)
	if !ok {
		return
	}

	g, vehicles, err := h.service.Garage(c.Request.Context(), middleware.MerchantID(c), customer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch garage"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"garage": g, "vehicles": vehicles}})
}

func (h *GarageHandler) AddVehicle(c *gin.Context) {
	customer, ok := customerID(c)
	if !ok {
		return
	}

	var input garage.VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.service.AddVehicle(c.Request.Context(), middleware.MerchantID(c), customer, input)
	if err != nil {
		var capErr *garage.CapacityError
		if errors.As(err, &capErr) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add vehicle"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": vehicle})
}

func (h *GarageHandler) UpdateVehicle(c *gin.Context) {
	var input garage.VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.service.UpdateVehicle(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

func (h *GarageHandler) SetPrimary(c *gin.Context) {
	if err := h.service.SetPrimaryVehicle(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"primary": c.Param("id")}})
}

func (h *GarageHandler) RemoveVehicle(c *gin.Context) {
	if err := h.service.RemoveVehicle(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove vehicle"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *GarageHandler) ListReminders(c *gin.Context) {
	reminders, err := h.service.ListReminders(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reminders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reminders})
}

func (h *GarageHandler) CompleteReminder(c *gin.Context) {
	var input struct {
		Mileage int `json:"mileage"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder, err := h.service.CompleteReminder(c.Request.Context(), c.Param("id"), input.Mileage)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reminder})
}

func (h *GarageHandler) AddAlert(c *gin.Context) {
	var input struct {
		ProductID   string  `json:"product_id" binding:"required"`
		AlertType   string  `json:"alert_type" binding:"required"`
		TargetPrice float64 `json:"target_price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alertType := models.AlertType(input.AlertType)
	if alertType != models.AlertPriceDrop && alertType != models.AlertBackInStock {
		c.JSON(http.StatusBadRequest, gin.H{"error": "alert_type must be price_drop or back_in_stock"})
		return
	}

	alert, err := h.service.AddPriceAlert(c.Request.Context(), c.Param("id"), input.ProductID, alertType, input.TargetPrice)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": alert})
}

// CheckAlerts sweeps the merchant's armed alerts against current catalog
// state. Intended to be called after sync runs by the notification worker.
func (h *GarageHandler) CheckAlerts(c *gin.Context) {
	triggered, err := h.service.CheckPriceAlerts(c.Request.Context(), middleware.MerchantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": triggered, "count": len(triggered)})
}

func (h *GarageHandler) RecordPurchase(c *gin.Context) {
	var input struct {
		ProductID   string     `json:"product_id" binding:"required"`
		SKU         string     `json:"sku"`
		OrderID     string     `json:"order_id"`
		Price       float64    `json:"price"`
		Quantity    int        `json:"quantity"`
		PurchasedAt *time.Time `json:"purchased_at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase := &models.PurchaseHistory{
		VehicleID: c.Param("id"),
		ProductID: input.ProductID,
		SKU:       input.SKU,
		OrderID:   input.OrderID,
		Price:     input.Price,
		Quantity:  input.Quantity,
	}
	if input.PurchasedAt != nil {
		purchase.PurchasedAt = *input.PurchasedAt
	}

	if err := h.service.RecordPurchase(c.Request.Context(), purchase); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record purchase"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": purchase})
}

func (h *GarageHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.service.ListPurchases(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": purchases})
}
