package service

import (
	"context"
	"errors"
	"time"

	"support-ops-dashboard/backend/internal/models"

	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("chat session not found")

// ChatService owns chat sessions and their message history. It is the
// persistence backend for the websocket relay: a message must be stored here
// before it is ever broadcast.
type ChatService struct {
	db *gorm.DB
}

// NewChatService creates a new chat service
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// CreateSession opens a new chat session in the active state with the AI
// responder enabled.
func (s *ChatService) CreateSession(ctx context.Context, req *models.CreateChatSessionRequest) (*models.ChatSession, error) {
	session := models.ChatSession{
		CustomerID: req.CustomerID,
		TicketID:   req.TicketID,
		Status:     models.SessionActive,
		IsAIActive: true,
		CreatedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession retrieves a session by ID.
func (s *ChatService) GetSession(ctx context.Context, id uint) (*models.ChatSession, error) {
	var session models.ChatSession
	result := s.db.WithContext(ctx).First(&session, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, result.Error
	}
	return &session, nil
}

// ListSessions returns sessions newest first, optionally filtered by status.
func (s *ChatService) ListSessions(ctx context.Context, status string) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateSession applies a partial mutation and returns the updated row.
// Nil fields in the update are left untouched.
func (s *ChatService) UpdateSession(ctx context.Context, id uint, update models.ChatSessionUpdate) (*models.ChatSession, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.AssignedAgent != nil {
		fields["assigned_agent"] = *update.AssignedAgent
	}
	if update.IsAIActive != nil {
		fields["is_ai_active"] = *update.IsAIActive
	}
	if update.EndedAt != nil {
		fields["ended_at"] = *update.EndedAt
	}
	if len(fields) == 0 {
		return session, nil
	}

	if err := s.db.WithContext(ctx).Model(session).Updates(fields).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// CreateMessage appends a message to a session's history.
func (s *ChatService) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	if msg.MessageType == "" {
		msg.MessageType = models.MessageText
	}
	return s.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns a session's messages in timestamp order, the order a
// joining viewer replays them in.
func (s *ChatService) ListMessages(ctx context.Context, sessionID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
