// Package realtime delivers newly inserted chat messages to connected
// clients without polling. A Hub tracks one Client per open websocket, and a
// Bridge holds the single persistent subscription to the Redis message bus
// and fans incoming events out to the hub.
//
// Delivery is at-least-once and unordered relative to store commit order: a
// freshly sent message reaches its sender twice (once as the HTTP response,
// once as a bus event), and events can arrive out of insert order under
// jitter. Consumers must treat the message id as the deduplication key and
// re-sort by created_at before rendering; neither is the hub's job.
package realtime

import "sync"

// Event is the envelope pushed to connected clients over the websocket.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// EventMessageNew is sent when a message row is inserted.
const EventMessageNew = "message:new"

// Client is one registered consumer (one per open socket). Events arrive on
// Send; when the buffer is full further events are dropped for this client,
// which is acceptable because the store remains the source of truth and the
// next explicit fetch recovers anything missed.
type Client struct {
	UserID uint64
	Send   chan Event
}

// Hub is the per-user client registry. A user may hold several clients at
// once (multiple tabs or devices).
type Hub struct {
	mu      sync.RWMutex
	clients map[uint64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: map[uint64]map[*Client]struct{}{}}
}

// Register creates a client for the user and adds it to the registry. The
// caller owns the client's lifecycle and must pair every Register with an
// Unregister when the owning view or socket is torn down.
func (h *Hub) Register(userID uint64) *Client {
	c := &Client{UserID: userID, Send: make(chan Event, 64)}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	return c
}

// Unregister removes the client and closes its event channel. Safe to call
// once per client; the write pump draining Send observes the close and exits.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.UserID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.Send)
		}
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
}

// BroadcastToUsers delivers the event to every client of every listed user.
// Clients whose buffer is full are skipped.
func (h *Hub) BroadcastToUsers(userIDs []uint64, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, uid := range userIDs {
		for c := range h.clients[uid] {
			select {
			case c.Send <- ev:
			default:
				// slow consumer, drop
			}
		}
	}
}
