// Package realtime pushes coalesced change notifications to connected
// clients. Events carry only {table, action}; clients are expected to
// re-query on receipt, so dropped or reordered events are harmless.
package realtime

import (
	"sync"
)

// Change actions.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Change identifies a mutation on a table.
type Change struct {
	Table  string `json:"table"`
	Action string `json:"action"`
}

// Client is one connected subscriber.
type Client struct {
	ch chan Change
}

// Events exposes the client's event stream.
func (c *Client) Events() <-chan Change {
	return c.ch
}

// Hub fans mutations out to all connected clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a subscriber and returns its client handle.
func (h *Hub) Register() *Client {
	client := &Client{ch: make(chan Change, 16)}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	return client
}

// Unregister removes a subscriber and closes its stream. Safe to call more
// than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.ch)
}

// Broadcast delivers a change to every subscriber. A subscriber with a full
// buffer has the event dropped; the pending events it already holds make it
// re-query anyway.
func (h *Hub) Broadcast(table, action string) {
	change := Change{Table: table, Action: action}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.ch <- change:
		default:
		}
	}
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
