package ws

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

// fakeStore is an in-memory ChatStore.
type fakeStore struct {
	mu        sync.Mutex
	sessions  map[uint]*models.ChatSession
	messages  []models.ChatMessage
	nextMsgID uint
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[uint]*models.ChatSession)}
}

func (s *fakeStore) addSession(id uint, aiActive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &models.ChatSession{
		ID:         id,
		Status:     models.SessionActive,
		IsAIActive: aiActive,
		CreatedAt:  time.Now(),
	}
}

func (s *fakeStore) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.nextMsgID++
	msg.ID = s.nextMsgID
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *fakeStore) GetSession(ctx context.Context, id uint) (*models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("chat session not found")
	}
	copied := *sess
	return &copied, nil
}

func (s *fakeStore) UpdateSession(ctx context.Context, id uint, update models.ChatSessionUpdate) (*models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("chat session not found")
	}
	if update.Status != nil {
		sess.Status = *update.Status
	}
	if update.AssignedAgent != nil {
		sess.AssignedAgent = *update.AssignedAgent
	}
	if update.IsAIActive != nil {
		sess.IsAIActive = *update.IsAIActive
	}
	if update.EndedAt != nil {
		sess.EndedAt = update.EndedAt
	}
	copied := *sess
	return &copied, nil
}

func (s *fakeStore) messagesFor(sessionID uint) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChatMessage
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out
}

func (s *fakeStore) session(id uint) models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.sessions[id]
}

// fakeConn is an in-memory Conn. ReadMessage blocks until a frame is pushed
// or the connection is closed.
type fakeConn struct {
	mu      sync.Mutex
	inbound chan []byte
	written [][]byte
	pings   int
	pingErr error

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) push(frame []byte) {
	c.inbound <- frame
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case frame := <-c.inbound:
		return 1, frame, nil
	case <-c.closed:
		return 0, nil, errors.New("connection closed")
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pings++
	return c.pingErr
}

func (c *fakeConn) writtenFrames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.written))
	copy(out, c.written)
	return out
}

func (c *fakeConn) pingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pings
}

func (c *fakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }
func (c *fakeConn) SetReadLimit(limit int64)           {}
func (c *fakeConn) SetPongHandler(h func(string) error) {}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// fakeHandler records messages the relay hands off for AI processing.
type fakeHandler struct {
	mu    sync.Mutex
	calls []string
}

func (h *fakeHandler) Enqueue(sessionID uint, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, text)
}

func (h *fakeHandler) enqueued() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

// recordingBroadcaster captures outbound events in order.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []OutboundEvent
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID uint, evt OutboundEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
}

func (b *recordingBroadcaster) all() []OutboundEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]OutboundEvent(nil), b.events...)
}
