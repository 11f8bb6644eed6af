package leave

import (
	"context"
	"time"
)

// ApprovedFilter narrows ListApproved. Zero values leave a bound open.
type ApprovedFilter struct {
	StaffID string

	// Bounds on StartDate, inclusive.
	StartFrom time.Time
	StartTo   time.Time

	// Requests touching any day of [OverlapFrom, OverlapTo]. Both must be set.
	OverlapFrom time.Time
	OverlapTo   time.Time
}

// Matches applies the filter to an already-approved request.
func (f ApprovedFilter) Matches(r LeaveRequest) bool {
	if f.StaffID != "" && r.StaffID != f.StaffID {
		return false
	}
	if !f.StartFrom.IsZero() && r.StartDate.Before(f.StartFrom) {
		return false
	}
	if !f.StartTo.IsZero() && r.StartDate.After(f.StartTo) {
		return false
	}
	if !f.OverlapFrom.IsZero() && !f.OverlapTo.IsZero() && !r.Overlaps(f.OverlapFrom, f.OverlapTo) {
		return false
	}
	return true
}

// LeaveRequestRepository - interface for leave request storage.
// Every mutation of an existing request is conditional on it still being
// pending so concurrent service instances cannot double-apply.
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// UpdatePending rewrites the editable fields. ErrNotEditable when the
	// stored request is no longer pending.
	UpdatePending(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	// DeletePending removes a pending request. ErrNotEditable otherwise.
	DeletePending(ctx context.Context, id string) error

	// Decide moves a pending request to its terminal status.
	// ErrAlreadyProcessed when it is not pending any more.
	Decide(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	// ListPending returns pending requests oldest first.
	ListPending(ctx context.Context) ([]LeaveRequest, error)

	// ListByStaff returns all of a staff member's requests newest first.
	ListByStaff(ctx context.Context, staffID string) ([]LeaveRequest, error)

	// ListApproved returns approved requests ordered by start date.
	ListApproved(ctx context.Context, filter ApprovedFilter) ([]LeaveRequest, error)
}
