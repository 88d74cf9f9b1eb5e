package ws

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"support-ops-dashboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRelay(store *fakeStore) *Relay {
	registry := NewSessionRegistry(store, testLogger())
	return NewRelay(registry, store, testLogger())
}

func frame(t *testing.T, evt InboundEvent) []byte {
	t.Helper()
	data, err := json.Marshal(evt)
	require.NoError(t, err)
	return data
}

// decode every written frame into outbound events
func outboundEvents(t *testing.T, conn *fakeConn) []OutboundEvent {
	t.Helper()
	var out []OutboundEvent
	for _, raw := range conn.writtenFrames() {
		if len(raw) == 0 {
			continue // close frame
		}
		var evt OutboundEvent
		require.NoError(t, json.Unmarshal(raw, &evt))
		out = append(out, evt)
	}
	return out
}

func TestChatMessagePersistedThenDelivered(t *testing.T) {
	store := newFakeStore()
	store.addSession(42, true)
	relay := newTestRelay(store)

	conn := newFakeConn()
	relay.Attach(conn)
	defer conn.Close()

	conn.push(frame(t, InboundEvent{Type: EventJoinSession, SessionID: 42}))
	conn.push(frame(t, InboundEvent{
		Type:       EventChatMessage,
		Sender:     models.SenderCustomer,
		SenderName: "Dana",
		Message:    "my sync is stuck",
	}))

	assert.Eventually(t, func() bool {
		return len(outboundEvents(t, conn)) >= 1
	}, time.Second, 5*time.Millisecond)

	msgs := store.messagesFor(42)
	require.Len(t, msgs, 1)
	assert.Equal(t, "my sync is stuck", msgs[0].Message)
	assert.Equal(t, models.SenderCustomer, msgs[0].Sender)

	events := outboundEvents(t, conn)
	require.NotEmpty(t, events)
	assert.Equal(t, EventNewMessage, events[0].Type)
	require.NotNil(t, events[0].Message)
	// The delivered message carries the persisted row, ID included.
	assert.Equal(t, msgs[0].ID, events[0].Message.ID)
}

func TestChatMessageBindsCarriedSessionID(t *testing.T) {
	store := newFakeStore()
	store.addSession(9, true)
	relay := newTestRelay(store)

	conn := newFakeConn()
	c := relay.Attach(conn)
	defer conn.Close()

	// No prior join; the frame itself names the session.
	conn.push(frame(t, InboundEvent{
		Type:      EventChatMessage,
		SessionID: 9,
		Sender:    models.SenderAgent,
		Message:   "hello",
	}))

	assert.Eventually(t, func() bool {
		return c.SessionID() == 9 && relay.registry.Resolve(9) == c
	}, time.Second, 5*time.Millisecond)
}

func TestPersistFailureSuppressesDelivery(t *testing.T) {
	store := newFakeStore()
	store.addSession(3, true)
	store.createErr = errors.New("disk full")
	relay := newTestRelay(store)

	conn := newFakeConn()
	relay.Attach(conn)
	defer conn.Close()

	conn.push(frame(t, InboundEvent{Type: EventJoinSession, SessionID: 3}))
	conn.push(frame(t, InboundEvent{Type: EventChatMessage, Sender: models.SenderCustomer, Message: "hi"}))

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, outboundEvents(t, conn))
	assert.Empty(t, store.messagesFor(3))
}

func TestMalformedFrameIsDroppedConnectionSurvives(t *testing.T) {
	store := newFakeStore()
	store.addSession(5, true)
	relay := newTestRelay(store)

	conn := newFakeConn()
	c := relay.Attach(conn)
	defer conn.Close()

	conn.push([]byte("{not json"))
	conn.push(frame(t, InboundEvent{Type: "resize_window"}))
	conn.push(frame(t, InboundEvent{Type: EventJoinSession, SessionID: 5}))

	assert.Eventually(t, func() bool {
		return relay.registry.Resolve(5) == c
	}, time.Second, 5*time.Millisecond)
}

func TestCustomerMessageHandedToEscalator(t *testing.T) {
	store := newFakeStore()
	store.addSession(6, true)
	relay := newTestRelay(store)
	handler := &fakeHandler{}
	relay.SetEscalator(handler)

	conn := newFakeConn()
	relay.Attach(conn)
	defer conn.Close()

	conn.push(frame(t, InboundEvent{Type: EventJoinSession, SessionID: 6}))
	conn.push(frame(t, InboundEvent{Type: EventChatMessage, Sender: models.SenderCustomer, Message: "refund please"}))
	conn.push(frame(t, InboundEvent{Type: EventChatMessage, Sender: models.SenderAgent, Message: "on it"}))

	assert.Eventually(t, func() bool {
		return len(store.messagesFor(6)) == 2
	}, time.Second, 5*time.Millisecond)

	// Only the customer message reaches the AI pipeline.
	assert.Equal(t, []string{"refund please"}, handler.enqueued())
}

func TestTypingIsRelayedNotPersisted(t *testing.T) {
	store := newFakeStore()
	store.addSession(8, true)
	relay := newTestRelay(store)

	conn := newFakeConn()
	relay.Attach(conn)
	defer conn.Close()

	conn.push(frame(t, InboundEvent{Type: EventJoinSession, SessionID: 8}))
	conn.push(frame(t, InboundEvent{Type: EventTyping, Sender: models.SenderCustomer}))

	assert.Eventually(t, func() bool {
		events := outboundEvents(t, conn)
		return len(events) == 1 && events[0].Type == EventTyping
	}, time.Second, 5*time.Millisecond)

	assert.Empty(t, store.messagesFor(8))
}

func TestBroadcastWithoutViewerIsNoop(t *testing.T) {
	relay := newTestRelay(newFakeStore())
	assert.NotPanics(t, func() {
		relay.BroadcastToSession(99, OutboundEvent{Type: EventNewMessage})
	})
}

func TestDropConnectionUnregistersAndEndsSession(t *testing.T) {
	store := newFakeStore()
	store.addSession(11, true)
	relay := newTestRelay(store)

	conn := newFakeConn()
	c := relay.Attach(conn)

	conn.push(frame(t, InboundEvent{Type: EventJoinSession, SessionID: 11}))
	assert.Eventually(t, func() bool {
		return relay.registry.Resolve(11) == c
	}, time.Second, 5*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool {
		return relay.registry.Resolve(11) == nil && len(relay.Connections()) == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, models.SessionEnded, store.session(11).Status)
}
