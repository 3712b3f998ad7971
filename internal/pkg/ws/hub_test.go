package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub *Hub, rooms []string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, map[string]interface{}{"user_id": r.URL.Query().Get("user")}, rooms)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, b, err := conn.ReadMessage()
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestHub_Broadcast_ReachesRoomMembers(t *testing.T) {
	// Setup
	hub := NewHub()
	defer hub.Close()
	srv := newTestServer(t, hub, []string{"admin_dashboard"})
	conn := dial(t, srv, "u1")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Act
	err := hub.Broadcast([]string{"admin_dashboard"}, map[string]string{"event": "task_update"})

	// Assert
	require.NoError(t, err)
	msg := readJSON(t, conn)
	assert.Equal(t, "task_update", msg["event"])
}

func TestHub_Broadcast_SkipsOtherRooms(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	srv := newTestServer(t, hub, []string{"employee_dashboard"})
	conn := dial(t, srv, "u1")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast([]string{"admin_dashboard"}, map[string]string{"event": "hidden"}))
	require.NoError(t, hub.Broadcast([]string{"employee_dashboard"}, map[string]string{"event": "visible"}))

	msg := readJSON(t, conn)
	assert.Equal(t, "visible", msg["event"])
}

func TestHub_JoinFromMessageHandler(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	hub.OnMessage(func(c *Conn, msg []byte) {
		room := string(msg)
		c.Join(room)
		user, _ := c.Value("user_id")
		_ = c.Send(map[string]interface{}{"event": "subscribed", "room": room, "user": user})
	})
	srv := newTestServer(t, hub, nil)
	conn := dial(t, srv, "u7")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("attendance_e1")))
	ack := readJSON(t, conn)
	assert.Equal(t, "subscribed", ack["event"])
	assert.Equal(t, "u7", ack["user"])

	require.NoError(t, hub.Broadcast([]string{"attendance_e1"}, map[string]string{"event": "attendance_update"}))
	msg := readJSON(t, conn)
	assert.Equal(t, "attendance_update", msg["event"])
}

func TestHub_Disconnect(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	gone := make(chan struct{}, 1)
	hub.OnDisconnect(func(c *Conn) { gone <- struct{}{} })
	srv := newTestServer(t, hub, []string{"r"})
	conn := dial(t, srv, "u1")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	select {
	case <-gone:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect handler not called")
	}
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
