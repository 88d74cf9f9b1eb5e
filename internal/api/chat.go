package api

import (
	"net/http"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/internal/service"
	"support-ops-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the REST view of chat sessions: opening sessions,
// listing them for the dashboard, and replaying message history. Live
// traffic goes over the websocket endpoint instead.
type ChatHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service *service.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: logger}
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req models.CreateChatSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Error creating chat session", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat session"})
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
		default:
			h.logger.Error("Error getting chat session", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat session"})
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.logger.Error("Error listing chat sessions", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chat sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// ListMessages replays a session's history in timestamp order.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.service.GetSession(c.Request.Context(), id); err != nil {
		switch err {
		case service.ErrSessionNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
		default:
			h.logger.Error("Error getting chat session", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat session"})
		}
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Error listing chat messages", "sessionId", id, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// EndSession marks a session ended from the dashboard side.
func (h *ChatHandler) EndSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	status := models.SessionEnded
	now := time.Now()
	session, err := h.service.UpdateSession(c.Request.Context(), id, models.ChatSessionUpdate{
		Status:  &status,
		EndedAt: &now,
	})
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
		default:
			h.logger.Error("Error ending chat session", "id", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end chat session"})
		}
		return
	}
	c.JSON(http.StatusOK, session)
}
