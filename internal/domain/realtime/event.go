package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/sse"
)

// Server -> client events
const (
	EventAttendanceUpdate       = "attendance_update"
	EventAttendanceStatsUpdate  = "attendance_stats_update"
	EventEmployeeUpdate         = "employee_update"
	EventTaskUpdate             = "task_update"
	EventEmployeeStatusResponse = "employee_status_response"
	EventSubscribed             = "subscribed"
	EventUnsubscribed           = "unsubscribed"
	EventConnected              = "connected"
	EventError                  = "error"
)

// Client -> server events
const (
	EventSubscribeAttendance   = "subscribe_attendance"
	EventUnsubscribeAttendance = "unsubscribe_attendance"
	EventGetEmployeeStatus     = "get_employee_status"
)

// Payload types carried in the envelope
const (
	TypePunchUpdate    = "punch_update"
	TypeStatsUpdate    = "stats_update"
	TypeEmployeeChange = "employee_change"
	TypeTaskChange     = "task_change"
)

const RoomAttendanceUpdates = "attendance_updates"

// DashboardRoom is the room every connection of role joins.
func DashboardRoom(role user.Role) string {
	return string(role) + "_dashboard"
}

// EmployeeRoom is the per-employee attendance topic.
func EmployeeRoom(employeeID string) string {
	return "attendance_" + employeeID
}

// ManagementRooms are the dashboards that see every mutation.
func ManagementRooms() []string {
	return []string{DashboardRoom(user.RoleAdmin), DashboardRoom(user.RoleSuperAdmin)}
}

type Envelope struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Event is published to every connection in any of Rooms.
type Event struct {
	Name    string
	Rooms   []string
	Payload interface{}
}

// Message is a single frame on the WebSocket channel, both directions.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type EmployeeRoomRequest struct {
	EmployeeID string `json:"employeeId"`
}

type EmployeeStatusResponse struct {
	EmployeeID    string     `json:"employeeId"`
	Name          string     `json:"name"`
	CurrentStatus string     `json:"currentStatus"`
	LastPunchIn   *time.Time `json:"lastPunchIn"`
	LastPunchOut  *time.Time `json:"lastPunchOut"`
}

// Client identifies an authenticated real-time connection.
type Client struct {
	UserID string
	Role   user.Role
}

// Publisher is what mutation paths call after a successful state change.
// Publishing never blocks and never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Service interface {
	Publisher
	// DefaultRooms are the rooms a client joins on connect.
	DefaultRooms(client Client) []string
	Subscribe(rooms []string) (<-chan sse.Event, func())
	ServeWebSocket(w http.ResponseWriter, r *http.Request, client Client) error
	ConnectionCount() int
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// Change describes a created/updated/deleted entity.
type Change struct {
	Action string      `json:"action"`
	ID     string      `json:"id"`
	Data   interface{} `json:"data,omitempty"`
}

const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionArchived  = "archived"
	ActionEscalated = "escalated"
)

// NewEvent wraps data in the standard envelope.
func NewEvent(name, payloadType string, data interface{}, rooms []string, now time.Time) Event {
	return Event{
		Name:  name,
		Rooms: rooms,
		Payload: Envelope{
			Type:      payloadType,
			Data:      data,
			Timestamp: now,
		},
	}
}

// AttendanceRooms are the targets of punch and stats events for employeeID.
func AttendanceRooms(employeeID string) []string {
	return append(ManagementRooms(), RoomAttendanceUpdates, EmployeeRoom(employeeID))
}
