package sse

import (
	"sync"
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Event string
	Data  interface{}
}

// Hub fans events out to subscribers keyed by room. A subscriber may sit in
// several rooms and still receives each event once.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a channel in every given room and returns it with its
// cleanup function.
func (h *Hub) Subscribe(rooms ...string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)
	for _, room := range rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[chan Event]struct{})
		}
		h.rooms[room][ch] = struct{}{}
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, room := range rooms {
				delete(h.rooms[room], ch)
				if len(h.rooms[room]) == 0 {
					delete(h.rooms, room)
				}
			}
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish sends an event to every subscriber of any of rooms. Full channels
// are skipped so a slow reader never blocks the publisher.
func (h *Hub) Publish(rooms []string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[chan Event]struct{})
	delivered := 0
	for _, room := range rooms {
		for ch := range h.rooms[room] {
			if _, dup := seen[ch]; dup {
				continue
			}
			seen[ch] = struct{}{}
			select {
			case ch <- event:
				delivered++
			default:
			}
		}
	}
	return delivered
}

// SubscriberCount returns the number of active subscribers in a room
func (h *Hub) SubscriberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// TotalSubscribers returns the number of distinct subscribers across rooms
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[chan Event]struct{})
	for _, subs := range h.rooms {
		for ch := range subs {
			seen[ch] = struct{}{}
		}
	}
	return len(seen)
}
