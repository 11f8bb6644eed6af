package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

// NotificationHandler serves the in-app notification stream.
type NotificationHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type notificationHandlerImpl struct {
	hub        *sse.Hub
	directory  staff.Directory
	jwtService jwt.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(hub *sse.Hub, directory staff.Directory, jwtService jwt.Service) NotificationHandler {
	return &notificationHandlerImpl{
		hub:        hub,
		directory:  directory,
		jwtService: jwtService,
	}
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *notificationHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	token, expiresIn, err := h.jwtService.GenerateSSEToken(middleware.StaffID(r))
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles SSE connection for ledger notifications
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	staffID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	member, err := h.directory.GetStaff(r.Context(), staffID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(member.ContactHandle)
	defer cleanup()

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"staff_id\":%q}\n\n", staffID)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
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
