package models

import (
	"time"

	"support-ops-dashboard/backend/internal/ai"
)

// Chat session statuses.
const (
	SessionActive      = "active"
	SessionEnded       = "ended"
	SessionTransferred = "transferred"
)

// Message sender roles.
const (
	SenderCustomer = "customer"
	SenderAgent    = "agent"
	SenderAI       = "ai"
	SenderSystem   = "system"
)

// Message kinds.
const (
	MessageText       = "text"
	MessageSystem     = "system"
	MessageEscalation = "escalation"
)

// ChatSession is one customer conversation thread. It may span several
// connections over its lifetime.
type ChatSession struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	CustomerID    *uint      `json:"customerId" gorm:"index"`
	TicketID      *uint      `json:"ticketId" gorm:"index"`
	Status        string     `json:"status" gorm:"default:active"`
	AssignedAgent string     `json:"assignedAgent"`
	IsAIActive    bool       `json:"isAIActive" gorm:"default:true"`
	CreatedAt     time.Time  `json:"createdAt"`
	EndedAt       *time.Time `json:"endedAt"`
}

// ChatMessage is a single message within a session. Rows are append-only;
// replay order for a joining viewer is timestamp order.
type ChatMessage struct {
	ID          uint               `json:"id" gorm:"primaryKey"`
	SessionID   uint               `json:"sessionId" gorm:"index"`
	Sender      string             `json:"sender"`
	SenderName  string             `json:"senderName"`
	Message     string             `json:"message"`
	MessageType string             `json:"messageType" gorm:"default:text"`
	AIMetadata  *ai.Classification `json:"aiMetadata,omitempty" gorm:"serializer:json"`
	Timestamp   time.Time          `json:"timestamp"`
}

// ChatSessionUpdate carries a partial session mutation. Nil fields are
// left untouched.
type ChatSessionUpdate struct {
	Status        *string
	AssignedAgent *string
	IsAIActive    *bool
	EndedAt       *time.Time
}

// CreateChatSessionRequest is the payload for opening a session manually.
type CreateChatSessionRequest struct {
	CustomerID *uint `json:"customerId"`
	TicketID   *uint `json:"ticketId"`
}
