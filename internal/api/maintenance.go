package api

import (
	"net/http"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/internal/service"
	"support-ops-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// MaintenanceHandler serves maintenance window scheduling
type MaintenanceHandler struct {
	service *service.MaintenanceService
	logger  *logger.Logger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(service *service.MaintenanceService, logger *logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{service: service, logger: logger}
}

func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req models.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	window, err := h.service.CreateWindow(c.Request.Context(), &req)
	if err != nil {
		switch err {
		case service.ErrInvalidWindow:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Error creating maintenance window", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule maintenance"})
		}
		return
	}
	c.JSON(http.StatusCreated, window)
}

func (h *MaintenanceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	window, err := h.service.GetWindow(c.Request.Context(), id)
	if err != nil {
		switch err {
		case service.ErrMaintenanceNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance window not found"})
		default:
			h.logger.Error("Error getting maintenance window", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve maintenance window"})
		}
		return
	}
	c.JSON(http.StatusOK, window)
}

func (h *MaintenanceHandler) List(c *gin.Context) {
	windows, err := h.service.ListWindows(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.logger.Error("Error listing maintenance windows", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list maintenance windows"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"windows": windows})
}

func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	window, err := h.service.CancelWindow(c.Request.Context(), id)
	if err != nil {
		switch err {
		case service.ErrMaintenanceNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance window not found"})
		default:
			h.logger.Error("Error cancelling maintenance window", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel maintenance window"})
		}
		return
	}
	c.JSON(http.StatusOK, window)
}
