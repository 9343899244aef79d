package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub is the process-scoped connection registry: one set of subscribers
// per stream channel. It is created once at startup, entries are added on
// subscribe and removed on disconnect. Nothing survives a restart;
// clients re-subscribe after one.
type Hub struct {
	mu       sync.RWMutex
	channels map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{channels: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) Subscribe(streamID int64, c *Client) {
	h.mu.Lock()
	set, ok := h.channels[streamID]
	if !ok {
		set = make(map[*Client]struct{})
		h.channels[streamID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	wsSubscribers.Inc()
	log.Printf("Hub.Subscribe: stream=%d subscribers=%d", streamID, h.Subscribers(streamID))
}

func (h *Hub) Unsubscribe(streamID int64, c *Client) {
	h.mu.Lock()
	set, ok := h.channels[streamID]
	if ok {
		if _, present := set[c]; present {
			delete(set, c)
			wsSubscribers.Dec()
		}
		if len(set) == 0 {
			delete(h.channels, streamID)
		}
	}
	h.mu.Unlock()
}

// Publish fans an event out to every current subscriber of the stream.
// Fire and forget: a subscriber whose send buffer is full is dropped so it
// can never stall delivery to the rest, and the caller never sees an
// error. Per-channel publish order follows call order; there is no
// cross-channel ordering.
func (h *Hub) Publish(streamID int64, event string, data any) {
	raw, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		log.Printf("Hub.Publish: marshal %s: %v", event, err)
		return
	}

	h.mu.RLock()
	set := h.channels[streamID]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	var slow []*Client
	for _, c := range clients {
		select {
		case c.Send <- raw:
		default:
			slow = append(slow, c)
		}
	}

	for _, c := range slow {
		log.Printf("Hub.Publish: dropping slow subscriber stream=%d", streamID)
		wsDroppedClients.Inc()
		h.Unsubscribe(streamID, c)
		c.Close()
	}

	wsEventsPublished.WithLabelValues(event).Inc()
}

// Subscribers returns the current subscriber count of one channel.
func (h *Hub) Subscribers(streamID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[streamID])
}
