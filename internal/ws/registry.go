package ws

import (
	"context"
	"sync"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/pkg/logger"
)

// SessionRegistry maps a session id to the single live connection viewing
// it. A later join for the same session silently replaces the earlier
// registration; the replaced connection is left for the liveness monitor or
// its own close event to reap.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uint]*Client
	store    ChatStore
	log      *logger.Logger
}

func NewSessionRegistry(store ChatStore, log *logger.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uint]*Client),
		store:    store,
		log:      log,
	}
}

// Register stores or overwrites the mapping for sessionID. Idempotent.
func (r *SessionRegistry) Register(sessionID uint, c *Client) {
	r.mu.Lock()
	r.sessions[sessionID] = c
	r.mu.Unlock()
	r.log.Debug("connection registered", "session_id", sessionID)
}

// Resolve returns the registered connection for sessionID, or nil.
func (r *SessionRegistry) Resolve(sessionID uint) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[sessionID]
}

// Unregister removes the mapping if c is still the registered connection; a
// replaced connection closing must not evict its replacement. When the
// mapping is actually removed the session record is marked ended.
func (r *SessionRegistry) Unregister(sessionID uint, c *Client) {
	r.mu.Lock()
	current, ok := r.sessions[sessionID]
	if !ok || current != c {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	status := models.SessionEnded
	now := time.Now()
	if _, err := r.store.UpdateSession(context.Background(), sessionID, models.ChatSessionUpdate{
		Status:  &status,
		EndedAt: &now,
	}); err != nil {
		r.log.LogError(err, "failed to mark session ended", "session_id", sessionID)
	}
	r.log.Debug("connection unregistered", "session_id", sessionID)
}

// Len reports the number of registered sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
