package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Outbound queue depth per connection
	sendBufferSize = 256
)

// Conn is the subset of *websocket.Conn the relay uses. Tests substitute an
// in-memory implementation.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	Close() error
}

// Client is one live connection. A client may view at most one session;
// joining binds the session id for subsequent events and for the close
// handler.
type Client struct {
	conn  Conn
	relay *Relay
	send  chan []byte

	mu        sync.Mutex
	sessionID uint
	alive     bool
	closed    bool
}

func newClient(conn Conn, relay *Relay) *Client {
	return &Client{
		conn:  conn,
		relay: relay,
		send:  make(chan []byte, sendBufferSize),
		alive: true,
	}
}

// SessionID returns the session this connection joined, or 0.
func (c *Client) SessionID() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) bindSession(id uint) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

func (c *Client) isAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

func (c *Client) setAlive(v bool) {
	c.mu.Lock()
	c.alive = v
	c.mu.Unlock()
}

// enqueue hands a frame to the write pump without blocking. A slow consumer
// loses the frame; delivery is at-most-once by design.
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.relay.log.Warn("dropping frame for slow consumer", "session_id", c.sessionID)
	}
}

// shutdown closes the outbound queue. Called exactly once, from the relay,
// when the read pump ends.
func (c *Client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// terminate force-closes the transport; the read pump observes the error and
// runs the normal disconnect path.
func (c *Client) terminate() {
	c.conn.Close()
}

// ping sends a control ping; the pong handler restores the liveness flag.
func (c *Client) ping() error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *Client) readPump() {
	defer func() {
		c.relay.dropConnection(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.setAlive(true)
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.relay.log.Warn("websocket read error", "error", err.Error())
			}
			return
		}
		c.relay.handleFrame(c, data)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	// Queue closed by shutdown; tell the peer we are done.
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
