package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/olahol/melody"
)

const roomsKey = "ws.rooms"

type roomSet struct {
	mu    sync.RWMutex
	rooms map[string]struct{}
}

func newRoomSet(rooms []string) *roomSet {
	rs := &roomSet{rooms: make(map[string]struct{}, len(rooms))}
	for _, r := range rooms {
		rs.rooms[r] = struct{}{}
	}
	return rs
}

func (rs *roomSet) anyOf(rooms []string) bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	for _, r := range rooms {
		if _, ok := rs.rooms[r]; ok {
			return true
		}
	}
	return false
}

// Conn is one WebSocket session with its room membership.
type Conn struct {
	s *melody.Session
}

func (c *Conn) rooms() *roomSet {
	v, ok := c.s.Get(roomsKey)
	if !ok {
		return newRoomSet(nil)
	}
	return v.(*roomSet)
}

func (c *Conn) Join(room string) {
	rs := c.rooms()
	rs.mu.Lock()
	rs.rooms[room] = struct{}{}
	rs.mu.Unlock()
}

func (c *Conn) Leave(room string) {
	rs := c.rooms()
	rs.mu.Lock()
	delete(rs.rooms, room)
	rs.mu.Unlock()
}

func (c *Conn) InRoom(room string) bool {
	return c.rooms().anyOf([]string{room})
}

// Value returns a key passed to Serve.
func (c *Conn) Value(key string) (interface{}, bool) {
	return c.s.Get(key)
}

// Send writes v as a JSON text frame to this connection only.
func (c *Conn) Send(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.s.Write(b)
}

// Hub is a room-aware wrapper around melody.
type Hub struct {
	m *melody.Melody
}

func NewHub() *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 4096

	m.HandleError(func(s *melody.Session, err error) {
		slog.Debug("websocket session error", "error", err)
	})

	return &Hub{m: m}
}

// OnConnect registers fn to run once a session is registered.
func (h *Hub) OnConnect(fn func(c *Conn)) {
	h.m.HandleConnect(func(s *melody.Session) {
		fn(&Conn{s: s})
	})
}

func (h *Hub) OnDisconnect(fn func(c *Conn)) {
	h.m.HandleDisconnect(func(s *melody.Session) {
		fn(&Conn{s: s})
	})
}

// OnMessage registers the handler for inbound text frames.
func (h *Hub) OnMessage(fn func(c *Conn, msg []byte)) {
	h.m.HandleMessage(func(s *melody.Session, msg []byte) {
		fn(&Conn{s: s}, msg)
	})
}

// Serve upgrades the request. keys are readable through Conn.Value and the
// connection starts in rooms. It blocks until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, keys map[string]interface{}, rooms []string) error {
	all := make(map[string]interface{}, len(keys)+1)
	for k, v := range keys {
		all[k] = v
	}
	all[roomsKey] = newRoomSet(rooms)
	return h.m.HandleRequestWithKeys(w, r, all)
}

// Broadcast sends v to every connection in any of rooms.
func (h *Hub) Broadcast(rooms []string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return h.m.BroadcastFilter(b, func(s *melody.Session) bool {
		return (&Conn{s: s}).rooms().anyOf(rooms)
	})
}

func (h *Hub) Len() int {
	return h.m.Len()
}

func (h *Hub) Close() error {
	return h.m.Close()
}
