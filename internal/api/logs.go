package api

import (
	"net/http"
	"strconv"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/internal/service"
	"support-ops-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LogHandler serves the integration log feed
type LogHandler struct {
	service *service.LogService
	logger  *logger.Logger
}

// NewLogHandler creates a new log handler
func NewLogHandler(service *service.LogService, logger *logger.Logger) *LogHandler {
	return &LogHandler{service: service, logger: logger}
}

func (h *LogHandler) Create(c *gin.Context) {
	var req models.CreateIntegrationLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entry, err := h.service.CreateLog(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Error creating integration log", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create log entry"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *LogHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.service.ListLogs(c.Request.Context(), c.Query("system"), c.Query("status"), limit)
	if err != nil {
		h.logger.Error("Error listing integration logs", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}
