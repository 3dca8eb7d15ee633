// Package relay is the realtime fan-out layer. It keeps a process-local
// registry of connected clients grouped into rooms named "{role}-{accountId}"
// and delivers events at most once, best-effort: nothing is queued, retried
// or persisted, and the registry is rebuilt from live connections after a
// restart.
package relay

import (
	"sync"

	"github.com/chanchalmahajan01/GKT/internal/metrics"

	"github.com/gorilla/websocket"
)

// Event is the wire envelope pushed to clients.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Room builds the logical delivery address for an actor.
func Room(role, accountID string) string {
	return role + "-" + accountID
}

// Client is one connected actor. Its send channel is drained by the
// websocket writer; when the buffer is full the event is dropped rather
// than blocking the publisher.
type Client struct {
	room string
	send chan Event
	conn *websocket.Conn
}

func NewClient(buffer int) *Client {
	if buffer <= 0 {
		buffer = 16
	}
	return &Client{send: make(chan Event, buffer)}
}

// Events exposes the client's delivery channel.
func (c *Client) Events() <-chan Event {
	return c.send
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Join places the client into exactly one room.
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.room = room
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[c.room]
	if !ok {
		return
	}
	if _, present := members[c]; !present {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, c.room)
	}
	close(c.send)
}

// Publish delivers the event to every client in the room and returns how
// many actually received it. An empty or absent room drops the event.
func (h *Hub) Publish(room string, e Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.rooms[room] {
		if c.trySend(e) {
			delivered++
		}
	}
	if delivered == 0 {
		metrics.RelayDropped.Inc()
	}
	return delivered
}

// Broadcast delivers the event to every connected client in every room.
func (h *Hub) Broadcast(e Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, members := range h.rooms {
		for c := range members {
			if c.trySend(e) {
				delivered++
			}
		}
	}
	return delivered
}

// RoomSize reports current membership, used by tests and the debug endpoint.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (c *Client) trySend(e Event) bool {
	select {
	case c.send <- e:
		metrics.RelayDelivered.Inc()
		return true
	default:
		// Slow consumer; dropping is the contract.
		metrics.RelayDropped.Inc()
		return false
	}
}
