package api

import (
	"net/http"
	"strconv"
	"time"

	"support-ops-dashboard/backend/internal/service"
	"support-ops-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves dashboard aggregates and API metric views
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	metrics   *service.MetricService
	logger    *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *service.AnalyticsService, metrics *service.MetricService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, metrics: metrics, logger: logger}
}

// Dashboard returns the cached summary for the landing page.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	summary, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("Error computing dashboard summary", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Metrics returns recent API call samples.
func (h *AnalyticsHandler) Metrics(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	samples, err := h.metrics.ListMetrics(c.Request.Context(), c.Query("system"), limit)
	if err != nil {
		h.logger.Error("Error listing api metrics", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list metrics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": samples})
}

// MetricStats aggregates API call samples per system over a window
// (default 24h, overridable with ?hours=N).
func (h *AnalyticsHandler) MetricStats(c *gin.Context) {
	hours, err := strconv.Atoi(c.Query("hours"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	stats, err := h.metrics.Stats(c.Request.Context(), time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		h.logger.Error("Error aggregating api metrics", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate metrics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
