package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// CustomerMessageHandler receives customer messages for asynchronous AI
// processing. Implemented by the Escalator.
type CustomerMessageHandler interface {
	Enqueue(sessionID uint, text string)
}

// Relay decodes inbound frames, persists chat messages, and routes outbound
// events to the one connection registered for a session. Persistence always
// happens before broadcast; a message that failed to persist is never
// delivered.
type Relay struct {
	registry  *SessionRegistry
	store     ChatStore
	escalator CustomerMessageHandler
	log       *logger.Logger

	mu    sync.Mutex
	conns map[*Client]bool

	messagesRelayed metric.Int64Counter
	framesRejected  metric.Int64Counter
}

func NewRelay(registry *SessionRegistry, store ChatStore, log *logger.Logger) *Relay {
	meter := otel.Meter("support-ops-dashboard/backend/internal/ws")
	relayed, _ := meter.Int64Counter("chat_messages_relayed_total")
	rejected, _ := meter.Int64Counter("chat_frames_rejected_total")

	return &Relay{
		registry:        registry,
		store:           store,
		log:             log,
		conns:           make(map[*Client]bool),
		messagesRelayed: relayed,
		framesRejected:  rejected,
	}
}

// SetEscalator wires the AI pipeline in after construction; the escalator
// needs the relay for broadcasting, so the two are linked post-hoc.
func (r *Relay) SetEscalator(h CustomerMessageHandler) {
	r.escalator = h
}

// Attach takes ownership of an upgraded connection and starts its pumps.
func (r *Relay) Attach(conn Conn) *Client {
	c := newClient(conn, r)
	r.mu.Lock()
	r.conns[c] = true
	r.mu.Unlock()

	go c.writePump()
	go c.readPump()
	return c
}

// Connections snapshots all open connections for the liveness monitor.
func (r *Relay) Connections() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Client, 0, len(r.conns))
	for c := range r.conns {
		out = append(out, c)
	}
	return out
}

// handleFrame runs on the connection's read pump, so events from one
// connection are processed in arrival order. A malformed frame is logged and
// dropped; the connection stays open.
func (r *Relay) handleFrame(c *Client, raw []byte) {
	var evt InboundEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		r.framesRejected.Add(context.Background(), 1)
		r.log.Warn("dropping malformed frame", "error", err.Error())
		return
	}

	switch evt.Type {
	case EventJoinSession:
		r.handleJoin(c, evt)
	case EventChatMessage:
		r.handleChatMessage(c, evt)
	case EventTyping:
		r.handleTyping(c, evt)
	default:
		r.framesRejected.Add(context.Background(), 1)
		r.log.Warn("dropping frame with unknown type", "type", evt.Type)
	}
}

func (r *Relay) handleJoin(c *Client, evt InboundEvent) {
	if evt.SessionID == 0 {
		r.log.Warn("join_session without sessionId")
		return
	}
	c.bindSession(evt.SessionID)
	r.registry.Register(evt.SessionID, c)
}

func (r *Relay) handleChatMessage(c *Client, evt InboundEvent) {
	sessionID := c.SessionID()
	if sessionID == 0 {
		if evt.SessionID == 0 {
			r.log.Warn("chat_message without a session")
			return
		}
		// First use: bind the carried session id.
		sessionID = evt.SessionID
		c.bindSession(sessionID)
		r.registry.Register(sessionID, c)
	}

	msg := &models.ChatMessage{
		SessionID:   sessionID,
		Sender:      evt.Sender,
		SenderName:  evt.SenderName,
		Message:     evt.Message,
		MessageType: models.MessageText,
		Timestamp:   time.Now(),
	}
	if err := r.store.CreateMessage(context.Background(), msg); err != nil {
		r.log.LogError(err, "failed to persist chat message", "session_id", sessionID)
		return
	}

	r.messagesRelayed.Add(context.Background(), 1)
	r.BroadcastToSession(sessionID, OutboundEvent{Type: EventNewMessage, Message: msg})

	if evt.Sender == models.SenderCustomer && r.escalator != nil {
		r.escalator.Enqueue(sessionID, evt.Message)
	}
}

func (r *Relay) handleTyping(c *Client, evt InboundEvent) {
	sessionID := c.SessionID()
	if sessionID == 0 {
		return
	}
	r.BroadcastToSession(sessionID, OutboundEvent{Type: EventTyping, Sender: evt.Sender})
}

// BroadcastToSession delivers an event to the session's registered
// connection, if any. No registration, or a closed transport, is a silent
// no-op: at-most-once delivery to whichever viewer is connected right now.
func (r *Relay) BroadcastToSession(sessionID uint, evt OutboundEvent) {
	client := r.registry.Resolve(sessionID)
	if client == nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		r.log.LogError(err, "failed to encode outbound event", "session_id", sessionID)
		return
	}
	client.enqueue(data)
}

// dropConnection runs once per client when its read pump ends: the outbound
// queue is closed and, if the connection had joined a session, it is
// unregistered (which marks the session ended).
func (r *Relay) dropConnection(c *Client) {
	r.mu.Lock()
	delete(r.conns, c)
	r.mu.Unlock()

	c.shutdown()
	if sessionID := c.SessionID(); sessionID != 0 {
		r.registry.Unregister(sessionID, c)
	}
}
