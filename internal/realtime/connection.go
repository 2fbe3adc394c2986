// Package realtime carries club events over WebSockets.
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame before the peer is considered stuck.
	writeWait = 10 * time.Second

	// Time allowed between pongs; pings go out at a fraction of this.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Frames above this are hostile or a client bug.
	maxMessageSize = 8 * 1024

	sendBuffer = 256
)

// Connection wraps one WebSocket with a buffered outbound queue. All
// writes go through the queue and a single WritePump goroutine, since
// gorilla connections allow only one concurrent writer.
type Connection struct {
	UserID uuid.UUID

	ws   *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewConnection(ws *websocket.Conn, userID uuid.UUID) *Connection {
	return &Connection{
		UserID: userID,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
	}
}

// Send queues a frame without blocking. It reports false when the
// connection is closed or its buffer is full, which marks the client as
// too slow to keep.
func (c *Connection) Send(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Close shuts the outbound queue. Safe to call more than once; the first
// call wins and lets WritePump drain and finish.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// WritePump drains the outbound queue onto the socket and keeps the
// connection alive with pings. It owns all writes. Runs until Close or a
// write error, then closes the underlying socket to unblock the reader.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SetupRead applies the read limits and the pong-refreshed deadline.
// Call once before the read loop.
func (c *Connection) SetupRead() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}

// ReadMessage blocks for the next text frame from the peer.
func (c *Connection) ReadMessage() ([]byte, error) {
	_, payload, err := c.ws.ReadMessage()
	return payload, err
}
