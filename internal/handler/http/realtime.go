package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/auth"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
	"github.com/parlour-hq/parlour-backend-go/internal/handler/http/response"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/jwt"
)

const sseKeepaliveInterval = 30 * time.Second

type RealtimeHandler interface {
	Token(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	WebSocket(w http.ResponseWriter, r *http.Request)
}

type realtimeHandlerImpl struct {
	jwtService      jwt.Service
	realtimeService realtime.Service
}

func NewRealtimeHandler(jwtService jwt.Service, realtimeService realtime.Service) RealtimeHandler {
	return &realtimeHandlerImpl{
		jwtService:      jwtService,
		realtimeService: realtimeService,
	}
}

// Token issues a short-lived stream token. Browsers cannot set headers on
// EventSource or WebSocket handshakes, so the token travels in the query.
func (h *realtimeHandlerImpl) Token(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(userID, getRoleFromContext(r))
	if err != nil {
		slog.Error("GenerateStreamToken failed", "error", err, "user_id", userID)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, auth.StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

func (h *realtimeHandlerImpl) authenticate(w http.ResponseWriter, r *http.Request) (realtime.Client, bool) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return realtime.Client{}, false
	}

	claims, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return realtime.Client{}, false
	}
	return realtime.Client{UserID: claims.UserID, Role: claims.Role}, true
}

// Stream handles SSE connections. An optional employeeId joins that
// employee's attendance topic as well.
func (h *realtimeHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	client, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	rooms := h.realtimeService.DefaultRooms(client)
	if employeeID := r.URL.Query().Get("employeeId"); employeeID != "" {
		rooms = append(rooms, realtime.EmployeeRoom(employeeID))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.realtimeService.Subscribe(rooms)
	defer cleanup()

	connected, _ := json.Marshal(map[string]interface{}{
		"userId": client.UserID,
		"role":   client.Role,
		"rooms":  rooms,
	})
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", realtime.EventConnected, connected)
	flusher.Flush()

	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("SSE event encode failed", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// WebSocket upgrades the connection and hands it to the hub.
func (h *realtimeHandlerImpl) WebSocket(w http.ResponseWriter, r *http.Request) {
	client, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if err := h.realtimeService.ServeWebSocket(w, r, client); err != nil {
		slog.Warn("websocket session ended with error", "error", err, "user_id", client.UserID)
	}
}
