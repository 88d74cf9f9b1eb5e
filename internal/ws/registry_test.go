package ws

import (
	"testing"

	"support-ops-dashboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterReplacesPreviousConnection(t *testing.T) {
	store := newFakeStore()
	store.addSession(7, true)
	registry := NewSessionRegistry(store, testLogger())
	relay := NewRelay(registry, store, testLogger())

	first := newClient(newFakeConn(), relay)
	second := newClient(newFakeConn(), relay)

	registry.Register(7, first)
	registry.Register(7, second)

	assert.Equal(t, 1, registry.Len())
	assert.Same(t, second, registry.Resolve(7))
}

func TestUnregisterIgnoresReplacedConnection(t *testing.T) {
	store := newFakeStore()
	store.addSession(7, true)
	registry := NewSessionRegistry(store, testLogger())
	relay := NewRelay(registry, store, testLogger())

	first := newClient(newFakeConn(), relay)
	second := newClient(newFakeConn(), relay)
	registry.Register(7, first)
	registry.Register(7, second)

	// The replaced connection closing must not evict its replacement, and
	// must not mark the session ended.
	registry.Unregister(7, first)
	assert.Same(t, second, registry.Resolve(7))
	assert.Equal(t, models.SessionActive, store.session(7).Status)
}

func TestUnregisterMarksSessionEnded(t *testing.T) {
	store := newFakeStore()
	store.addSession(7, true)
	registry := NewSessionRegistry(store, testLogger())
	relay := NewRelay(registry, store, testLogger())

	c := newClient(newFakeConn(), relay)
	registry.Register(7, c)
	registry.Unregister(7, c)

	assert.Nil(t, registry.Resolve(7))
	sess := store.session(7)
	assert.Equal(t, models.SessionEnded, sess.Status)
	require.NotNil(t, sess.EndedAt)
}

func TestResolveUnknownSession(t *testing.T) {
	registry := NewSessionRegistry(newFakeStore(), testLogger())
	assert.Nil(t, registry.Resolve(404))
}
