// Package hub owns the live websocket connections and the two delivery
// primitives the core needs: fan-out to every session and targeted delivery
// to one session.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/andrewsflike/officemessenger/pkg/log"
)

// Hub tracks connected clients keyed by session id. All map access is
// serialized by one RWMutex; sends hold the read lock while Unregister
// closes under the write lock, so a send can never hit a closed channel.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	log.L().Debug().Str(log.FieldSessionID, client.ID).Msg("client registered")
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.mu.Unlock()

	log.L().Debug().Str(log.FieldSessionID, client.ID).Msg("client unregistered")
}

// Broadcast delivers event to every connected session, skipping exclude when
// non-empty. Slow clients whose send buffer is full miss the frame rather
// than stall the room.
func (h *Hub) Broadcast(event interface{}, exclude string) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sessionID, client := range h.clients {
		if sessionID == exclude {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.L().Warn().Str(log.FieldSessionID, sessionID).Msg("send buffer full, frame dropped")
		}
	}
	return nil
}

// SendTo delivers event to one session. Delivery is best-effort: an unknown
// session id (it may have just disconnected) is not an error.
func (h *Hub) SendTo(sessionID string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[sessionID]
	if !ok {
		return nil
	}
	select {
	case client.Send <- data:
	default:
		log.L().Warn().Str(log.FieldSessionID, sessionID).Msg("send buffer full, frame dropped")
	}
	return nil
}

// Count returns the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
