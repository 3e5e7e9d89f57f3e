package ws

import (
	"context"
	"encoding/json"
	"sync"

	domain "github.com/mkuznetsov/home-sentry/internal/domain/security"
	"github.com/mkuznetsov/home-sentry/internal/logger"
)

// frame is the envelope sent to dashboard clients.
type frame struct {
	// Type discriminates the payload; currently always "status".
	Type string `json:"type"`
	// Payload carries the panel status.
	Payload *domain.Status `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts status frames.
type Hub struct {
	// ctx carries the hub logger; broadcasts have no per-call context.
	ctx context.Context

	// mu protects the clients set.
	mu sync.RWMutex
	// clients holds the connected dashboard clients.
	clients map[*Client]struct{}

	// last is the most recent frame, replayed to newly connected clients.
	last []byte
}

// NewHub creates an empty hub. The context is used for logging only.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		ctx:     logger.WithName(ctx, "ws-hub"),
		clients: make(map[*Client]struct{}),
	}
}

// StatusChanged implements the panel Notifier: it serializes the status and
// broadcasts it to all connected clients. Slow clients are dropped rather
// than allowed to block the panel.
func (h *Hub) StatusChanged(status *domain.Status) {
	message, err := json.Marshal(frame{Type: "status", Payload: status})
	if err != nil {
		logger.ErrorKV(h.ctx, "Failed to encode status frame", "error", err)

		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = message

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			logger.WarnKV(h.ctx, "Client send buffer full, dropping", "client_id", client.id)
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// register adds a client and replays the last known status to it.
func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = struct{}{}

	if h.last != nil {
		client.send <- h.last
	}

	logger.DebugKV(h.ctx, "Client registered", "client_id", client.id, "clients", len(h.clients))
}

// unregister removes a client if still present.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	close(client.send)
	delete(h.clients, client)

	logger.DebugKV(h.ctx, "Client unregistered", "client_id", client.id, "clients", len(h.clients))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
