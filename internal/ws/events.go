package ws

import "support-ops-dashboard/backend/internal/models"

// Inbound event types (client to server).
const (
	EventJoinSession = "join_session"
	EventChatMessage = "chat_message"
	EventTyping      = "typing"
)

// Outbound event types (server to client).
const (
	EventNewMessage = "new_message"
)

// InboundEvent is one JSON frame received from a connection.
type InboundEvent struct {
	Type       string `json:"type"`
	SessionID  uint   `json:"sessionId,omitempty"`
	Sender     string `json:"sender,omitempty"`
	SenderName string `json:"senderName,omitempty"`
	Message    string `json:"message,omitempty"`
}

// OutboundEvent is one JSON frame sent to a connection. Typing pulses carry
// only the sender role and make no delivery guarantee; the receiving UI owns
// the expiry timer.
type OutboundEvent struct {
	Type    string              `json:"type"`
	Message *models.ChatMessage `json:"message,omitempty"`
	Sender  string              `json:"sender,omitempty"`
}
