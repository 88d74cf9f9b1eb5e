package ws

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweepPingsResponsiveConnections(t *testing.T) {
	store := newFakeStore()
	relay := newTestRelay(store)
	monitor := NewLivenessMonitor(relay, time.Minute, testLogger())

	conn := newFakeConn()
	c := relay.Attach(conn)
	defer conn.Close()

	monitor.sweep()

	assert.Equal(t, 1, conn.pingCount())
	assert.False(t, c.isAlive()) // flag stays down until a pong arrives
	assert.Len(t, relay.Connections(), 1)
}

func TestSweepReapsSilentConnectionWithinTwoSweeps(t *testing.T) {
	store := newFakeStore()
	store.addSession(13, true)
	relay := newTestRelay(store)
	monitor := NewLivenessMonitor(relay, time.Minute, testLogger())

	conn := newFakeConn()
	c := relay.Attach(conn)
	conn.push(frame(t, InboundEvent{Type: EventJoinSession, SessionID: 13}))

	assert.Eventually(t, func() bool {
		return relay.registry.Resolve(13) == c
	}, time.Second, 5*time.Millisecond)

	// First sweep clears the flag and pings; no pong ever arrives.
	monitor.sweep()
	// Second sweep finds the flag still down and terminates the connection.
	monitor.sweep()

	assert.Eventually(t, func() bool {
		return len(relay.Connections()) == 0 && relay.registry.Resolve(13) == nil
	}, time.Second, 5*time.Millisecond)
}

func TestSweepTerminatesOnPingFailure(t *testing.T) {
	store := newFakeStore()
	relay := newTestRelay(store)
	monitor := NewLivenessMonitor(relay, time.Minute, testLogger())

	conn := newFakeConn()
	conn.pingErr = errors.New("broken pipe")
	relay.Attach(conn)

	monitor.sweep()

	assert.Eventually(t, func() bool {
		return len(relay.Connections()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestPongRestoresLiveness(t *testing.T) {
	store := newFakeStore()
	relay := newTestRelay(store)
	monitor := NewLivenessMonitor(relay, time.Minute, testLogger())

	conn := newFakeConn()
	c := relay.Attach(conn)
	defer conn.Close()

	monitor.sweep()
	assert.False(t, c.isAlive())

	// Simulate the transport-level pong.
	c.setAlive(true)

	monitor.sweep()
	assert.Len(t, relay.Connections(), 1)
	assert.Equal(t, 2, conn.pingCount())
}
