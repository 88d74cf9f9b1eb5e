package ws

import (
	"context"

	"support-ops-dashboard/backend/internal/models"
)

// ChatStore is the slice of the data-access layer the chat relay needs:
// append messages, read and patch session records.
type ChatStore interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	GetSession(ctx context.Context, id uint) (*models.ChatSession, error)
	UpdateSession(ctx context.Context, id uint, update models.ChatSessionUpdate) (*models.ChatSession, error)
}
