package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/sketchroom/internal"
)

// Hub maps stable player ids to their live connection and delivers outbound
// envelopes. It satisfies game.Broadcaster.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register binds the client to its player id and returns the connection it
// replaced, if the player resumed from another socket.
func (h *Hub) Register(c *Client) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	previous := h.clients[c.PlayerID()]
	h.clients[c.PlayerID()] = c
	return previous
}

// Unregister removes the client only if it is still the player's current
// connection. It reports whether it did.
func (h *Hub) Unregister(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[c.PlayerID()]; ok && current == c {
		delete(h.clients, c.PlayerID())
		return true
	}
	return false
}

func (h *Hub) SendToPlayer(playerID string, msg internal.Message[any]) {
	h.mu.RLock()
	c := h.clients[playerID]
	h.mu.RUnlock()

	if c == nil {
		log.Debug().Str("player", playerID).Str("type", msg.Type).Msg("[Hub] no connection for player, dropping")
		return
	}
	c.Enqueue(msg)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll shuts every connection down.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Close()
	}
}
