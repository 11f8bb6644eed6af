package staff

import "context"

// Directory supplies staff identity and entitlements. It is owned by the
// school administration side; the ledger only reads from it.
type Directory interface {
	GetStaff(ctx context.Context, staffID string) (Staff, error)
}

// MessageKind names what a notification is about. Transports use it as the
// event name or to pick a template.
type MessageKind string

const (
	MessageLeaveDecided MessageKind = "leave.decided"
	MessageOpenSession  MessageKind = "attendance.open_session"
)

// Message is one notification for a staff member.
type Message struct {
	Kind    MessageKind
	Subject string
	Body    string
}

// Notifier delivers a message to a staff contact handle (email address, SSE
// subscriber key, phone). Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, contactHandle string, msg Message) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, contactHandle string, msg Message) error

func (f NotifierFunc) Notify(ctx context.Context, contactHandle string, msg Message) error {
	return f(ctx, contactHandle, msg)
}
