package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xndroli/lucrative-growth-app/internal/api/middleware"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/store"
)

type JobHandler struct {
	jobs   *store.JobStore
	logger *logger.Logger
}

func NewJobHandler(jobs *store.JobStore, logger *logger.Logger) *JobHandler {
	return &JobHandler{
		jobs:   jobs,
		logger: logger,
	}
}

func (h *JobHandler) List(c *gin.Context) {
	merchantID := middleware.MerchantID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	jobs, err := h.jobs.Recent(c.Request.Context(), merchantID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		return
	}
	if job == nil || job.MerchantID != middleware.MerchantID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": job})
}

// Stats aggregates success rates over a trailing window, 30 days by default.
func (h *JobHandler) Stats(c *gin.Context) {
	merchantID := middleware.MerchantID(c)
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	since := time.Now().AddDate(0, 0, -days)

	stats, err := h.jobs.Stats(c.Request.Context(), merchantID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute job stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
