// Package notify composes staff.Notifier implementations.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
)

// Fanout delivers every notification to each wrapped notifier. All notifiers
// are attempted; their failures are joined.
type Fanout []staff.Notifier

// Notify implements staff.Notifier.
func (f Fanout) Notify(ctx context.Context, contactHandle string, msg staff.Message) error {
	var errs []error
	for i, n := range f {
		if err := n.Notify(ctx, contactHandle, msg); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Log writes notifications to the structured logger.
type Log struct {
	Logger *slog.Logger
}

// Notify implements staff.Notifier.
func (l Log) Notify(ctx context.Context, contactHandle string, msg staff.Message) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Notification", "contact_handle", contactHandle, "kind", msg.Kind, "subject", msg.Subject, "message", msg.Body)
	return nil
}
