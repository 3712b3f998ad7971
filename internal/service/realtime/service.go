package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/employee"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/sse"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/ws"
)

const (
	keyUserID = "user_id"
	keyRole   = "role"

	statusLookupTimeout = 5 * time.Second
)

// RealtimeServiceImpl fans events out to both the SSE hub and the WebSocket
// hub. Room names are shared by the two transports.
type RealtimeServiceImpl struct {
	sseHub       *sse.Hub
	wsHub        *ws.Hub
	employeeRepo employee.EmployeeRepository
}

func NewRealtimeService(employeeRepo employee.EmployeeRepository) *RealtimeServiceImpl {
	s := &RealtimeServiceImpl{
		sseHub:       sse.NewHub(),
		wsHub:        ws.NewHub(),
		employeeRepo: employeeRepo,
	}
	s.wsHub.OnConnect(s.handleConnect)
	s.wsHub.OnMessage(s.handleMessage)
	s.wsHub.OnDisconnect(func(c *ws.Conn) {
		userID, _ := c.Value(keyUserID)
		slog.Debug("websocket client disconnected", "user_id", userID)
	})
	return s
}

// Publish implements realtime.Publisher.
func (s *RealtimeServiceImpl) Publish(_ context.Context, event realtime.Event) {
	delivered := s.sseHub.Publish(event.Rooms, sse.Event{Event: event.Name, Data: event.Payload})

	if err := s.wsHub.Broadcast(event.Rooms, realtime.Message{Event: event.Name, Data: event.Payload}); err != nil {
		slog.Warn("websocket broadcast failed", "event", event.Name, "error", err)
	}
	slog.Debug("realtime event published", "event", event.Name, "rooms", event.Rooms, "sse_delivered", delivered)
}

// DefaultRooms implements realtime.Service.
func (s *RealtimeServiceImpl) DefaultRooms(client realtime.Client) []string {
	return []string{realtime.DashboardRoom(client.Role), realtime.RoomAttendanceUpdates}
}

// Subscribe implements realtime.Service.
func (s *RealtimeServiceImpl) Subscribe(rooms []string) (<-chan sse.Event, func()) {
	return s.sseHub.Subscribe(rooms...)
}

// ServeWebSocket implements realtime.Service. It blocks until the client
// goes away.
func (s *RealtimeServiceImpl) ServeWebSocket(w http.ResponseWriter, r *http.Request, client realtime.Client) error {
	keys := map[string]interface{}{
		keyUserID: client.UserID,
		keyRole:   string(client.Role),
	}
	return s.wsHub.Serve(w, r, keys, s.DefaultRooms(client))
}

// ConnectionCount implements realtime.Service.
func (s *RealtimeServiceImpl) ConnectionCount() int {
	return s.wsHub.Len() + s.sseHub.TotalSubscribers()
}

// Close disconnects every WebSocket client.
func (s *RealtimeServiceImpl) Close() error {
	return s.wsHub.Close()
}

func (s *RealtimeServiceImpl) handleConnect(c *ws.Conn) {
	userID, _ := c.Value(keyUserID)
	role, _ := c.Value(keyRole)
	roleStr, _ := role.(string)

	rooms := s.DefaultRooms(realtime.Client{Role: user.Role(roleStr)})
	slog.Debug("websocket client connected", "user_id", userID, "role", roleStr)

	send(c, realtime.EventConnected, map[string]interface{}{
		"userId": userID,
		"role":   roleStr,
		"rooms":  rooms,
	})
}

type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

var (
	errInvalidMessage     = errors.New("invalid message")
	errUnknownEvent       = errors.New("unknown event")
	errEmployeeIDRequired = errors.New("employeeId is required")
)

func (s *RealtimeServiceImpl) handleMessage(c *ws.Conn, raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		sendError(c, errInvalidMessage)
		return
	}

	switch msg.Event {
	case realtime.EventSubscribeAttendance:
		employeeID, err := parseEmployeeID(msg.Data)
		if err != nil {
			sendError(c, err)
			return
		}
		room := realtime.EmployeeRoom(employeeID)
		c.Join(room)
		send(c, realtime.EventSubscribed, map[string]string{"room": room})

	case realtime.EventUnsubscribeAttendance:
		employeeID, err := parseEmployeeID(msg.Data)
		if err != nil {
			sendError(c, err)
			return
		}
		room := realtime.EmployeeRoom(employeeID)
		c.Leave(room)
		send(c, realtime.EventUnsubscribed, map[string]string{"room": room})

	case realtime.EventGetEmployeeStatus:
		employeeID, err := parseEmployeeID(msg.Data)
		if err != nil {
			sendError(c, err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), statusLookupTimeout)
		defer cancel()

		emp, err := s.employeeRepo.GetByID(ctx, employeeID)
		if err != nil {
			if !errors.Is(err, employee.ErrEmployeeNotFound) {
				slog.Error("employee status lookup failed", "employee_id", employeeID, "error", err)
				err = errors.New("failed to load employee status")
			}
			sendError(c, err)
			return
		}
		send(c, realtime.EventEmployeeStatusResponse, realtime.EmployeeStatusResponse{
			EmployeeID:    emp.ID,
			Name:          emp.Name,
			CurrentStatus: string(emp.CurrentStatus),
			LastPunchIn:   emp.LastPunchIn,
			LastPunchOut:  emp.LastPunchOut,
		})

	default:
		sendError(c, errUnknownEvent)
	}
}

func parseEmployeeID(data json.RawMessage) (string, error) {
	var req realtime.EmployeeRoomRequest
	if len(data) == 0 {
		return "", errEmployeeIDRequired
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return "", errInvalidMessage
	}
	if req.EmployeeID == "" {
		return "", errEmployeeIDRequired
	}
	return req.EmployeeID, nil
}

func send(c *ws.Conn, event string, data interface{}) {
	if err := c.Send(realtime.Message{Event: event, Data: data}); err != nil {
		slog.Debug("websocket send failed", "event", event, "error", err)
	}
}

func sendError(c *ws.Conn, err error) {
	send(c, realtime.EventError, realtime.ErrorPayload{Message: err.Error()})
}
