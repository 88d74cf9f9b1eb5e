package api

import (
	"net/http"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/internal/service"
	"support-ops-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TicketHandler handles ticket CRUD requests
type TicketHandler struct {
	service *service.TicketService
	logger  *logger.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(service *service.TicketService, logger *logger.Logger) *TicketHandler {
	return &TicketHandler{service: service, logger: logger}
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ticket, err := h.service.CreateTicket(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Error creating ticket", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.service.GetTicket(c.Request.Context(), id)
	if err != nil {
		switch err {
		case service.ErrTicketNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		default:
			h.logger.Error("Error getting ticket", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ticket"})
		}
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) List(c *gin.Context) {
	filter := models.TicketFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}

	tickets, err := h.service.ListTickets(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Error listing tickets", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ticket, err := h.service.UpdateTicket(c.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case service.ErrTicketNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		default:
			h.logger.Error("Error updating ticket", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
		}
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTicket(c.Request.Context(), id); err != nil {
		switch err {
		case service.ErrTicketNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		default:
			h.logger.Error("Error deleting ticket", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ticket"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted"})
}
