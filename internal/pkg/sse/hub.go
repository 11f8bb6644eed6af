package sse

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
)

// eventNotification is used for messages that carry no kind.
const eventNotification = "notification"

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Recipient string
	Event     string
	Data      interface{}
}

// Notification is the payload of a ledger notification event.
type Notification struct {
	Subject string    `json:"subject,omitempty"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// Hub manages SSE subscribers keyed by contact handle.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber for a contact handle and returns the event channel and cleanup function
func (h *Hub) Subscribe(handle string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[handle] == nil {
		h.subscribers[handle] = make(map[chan Event]struct{})
	}
	h.subscribers[handle][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[handle], ch)
			close(ch)
			if len(h.subscribers[handle]) == 0 {
				delete(h.subscribers, handle)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a contact handle
func (h *Hub) Publish(handle string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[handle] {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// Notify implements staff.Notifier. The message kind becomes the SSE event
// name. A handle with no subscribers drops the event.
func (h *Hub) Notify(_ context.Context, contactHandle string, msg staff.Message) error {
	event := string(msg.Kind)
	if event == "" {
		event = eventNotification
	}
	h.Publish(contactHandle, Event{
		Recipient: contactHandle,
		Event:     event,
		Data:      Notification{Subject: msg.Subject, Message: msg.Body, SentAt: time.Now().UTC()},
	})
	return nil
}

// SubscriberCount returns the number of active subscribers for a contact handle
func (h *Hub) SubscriberCount(handle string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[handle])
}

// TotalSubscribers returns the total number of active subscribers
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
