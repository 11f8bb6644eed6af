package attendance

import (
	"context"
	"time"
)

// DateRange is an inclusive range of civil days. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the civil day d lies within the range.
func (r DateRange) Contains(d time.Time) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// AttendanceRepository defines data access for attendance records.
// Implementations enforce the (staff_id, date) uniqueness themselves.
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrAlreadyMarked when a record for
	// the same staff and date exists.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByStaffAndDate returns ErrAttendanceNotFound when there is no record.
	GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) (Record, error)

	// CloseSession persists check-out fields only if the stored record is still
	// open. Returns ErrAlreadyCheckedOut otherwise.
	CloseSession(ctx context.Context, record Record) (Record, error)

	// ListByStaff returns a staff member's records in range, newest first
	// unless chronological is set.
	ListByStaff(ctx context.Context, staffID string, dateRange DateRange, chronological bool) ([]Record, error)

	// ListByRange returns every record in range ordered by date, then check-in.
	ListByRange(ctx context.Context, dateRange DateRange) ([]Record, error)
}
