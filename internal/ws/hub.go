package ws

import (
	"encoding/json"
	"log"
	"sync"

	"nexus_game/internal/metrics"
	"nexus_game/internal/session"
)

// Hub fans session snapshots out to every socket watching that session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.SessionID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.SessionID] = set
	}
	set[c] = struct{}{}
	metrics.WSClients.Inc()
	log.Printf("Hub.Register: session=%s clients=%d", c.SessionID, len(set))
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.SessionID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.SessionID)
	}
	close(c.Send)
	metrics.WSClients.Dec()
	log.Printf("Hub.Unregister: session=%s", c.SessionID)
}

// ClientCount returns how many sockets watch sessionID.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Broadcast pushes snap to the session's sockets. It is the session listener,
// so it never blocks: a client whose buffer is full misses the frame and
// catches up on the next one.
func (h *Hub) Broadcast(snap session.Snapshot) {
	data, err := json.Marshal(Message{Type: MsgState, Payload: snap})
	if err != nil {
		log.Printf("Hub.Broadcast: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[snap.SessionID] {
		select {
		case c.Send <- data:
		default:
			log.Printf("Hub.Broadcast: session=%s version=%d dropped, client buffer full", snap.SessionID, snap.Version)
		}
	}
}
