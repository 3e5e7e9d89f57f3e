package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mkuznetsov/home-sentry/internal/logger"
)

const (
	// writeWait is the time allowed to write a frame to the peer.
	writeWait = 10 * time.Second
	// pongWait is the time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second
	// pingPeriod is the keepalive interval; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound frames; the feed is one-directional.
	maxMessageSize = 512
	// sendBufferSize is the per-client outbound frame buffer.
	sendBufferSize = 16
)

//nolint:gochecknoglobals // Upgrader is stateless and shared by all connections.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is read-only status data; origin checks are relaxed so the
	// dashboard can be served from a different port during development.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Client is a single connected dashboard.
type Client struct {
	// id identifies the client in logs.
	id string
	// hub is the owning hub.
	hub *Hub
	// conn is the underlying WebSocket connection.
	conn *websocket.Conn
	// send buffers outbound frames.
	send chan []byte
}

// ServeHTTP upgrades the request to a WebSocket connection and attaches the
// client to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnKV(h.ctx, "WebSocket upgrade failed", "error", err)

		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.register(client)

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection until the peer closes; the feed carries no
// inbound commands, those arrive over the HTTP API.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.DebugKV(c.hub.ctx, "WebSocket read error", "client_id", c.id, "error", err)
			}

			return
		}
	}
}

// writePump pumps frames from the hub to the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
