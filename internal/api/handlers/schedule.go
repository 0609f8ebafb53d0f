package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xndroli/lucrative-growth-app/internal/api/middleware"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/scheduler"
	"github.com/xndroli/lucrative-growth-app/internal/store"
)

type ScheduleHandler struct {
	schedules *store.ScheduleStore
	logger    *logger.Logger
}

func NewScheduleHandler(schedules *store.ScheduleStore, logger *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		logger:    logger,
	}
}

type scheduleInput struct {
	Name      string              `json:"name" binding:"required"`
	SyncType  string              `json:"sync_type" binding:"required"`
	Frequency string              `json:"frequency" binding:"required"`
	IsActive  *bool               `json:"is_active"`
	Settings  models.SyncSettings `json:"settings"`
}

func (h *ScheduleHandler) List(c *gin.Context) {
	merchantID := middleware.MerchantID(c)

	schedules, err := h.schedules.ListByMerchant(c.Request.Context(), merchantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": schedules})
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}
	if schedule == nil || schedule.MerchantID != middleware.MerchantID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": schedule})
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	merchantID := middleware.MerchantID(c)

	var input scheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	syncType, err := models.ParseSyncType(input.SyncType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	frequency, err := models.ParseSyncFrequency(input.Frequency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule := &models.SyncSchedule{
		MerchantID: merchantID,
		Name:       input.Name,
		SyncType:   syncType,
		Frequency:  frequency,
		IsActive:   true,
		NextRunAt:  scheduler.ComputeNextRun(frequency, time.Now()),
		Settings:   input.Settings,
	}
	if input.IsActive != nil {
		schedule.IsActive = *input.IsActive
	}

	if err := h.schedules.Create(c.Request.Context(), schedule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": schedule})
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	schedule, err := h.schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}
	if schedule == nil || schedule.MerchantID != middleware.MerchantID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	var input scheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	syncType, err := models.ParseSyncType(input.SyncType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	frequency, err := models.ParseSyncFrequency(input.Frequency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A frequency change restarts the cadence from now.
	if frequency != schedule.Frequency {
		schedule.NextRunAt = scheduler.ComputeNextRun(frequency, time.Now())
	}

	schedule.Name = input.Name
	schedule.SyncType = syncType
	schedule.Frequency = frequency
	schedule.Settings = input.Settings
	if input.IsActive != nil {
		schedule.IsActive = *input.IsActive
	}

	if err := h.schedules.Update(c.Request.Context(), schedule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": schedule})
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	schedule, err := h.schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}
	if schedule == nil || schedule.MerchantID != middleware.MerchantID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	if err := h.schedules.Delete(c.Request.Context(), schedule.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
