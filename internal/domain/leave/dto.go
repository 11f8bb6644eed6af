package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
)

const maxReasonLength = 1000

type ApplyRequest struct {
	StaffID   string `json:"staff_id"`
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	HalfDay   bool   `json:"half_day"`
	Reason    string `json:"reason"`
}

func (r *ApplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	}

	if len(r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: fmt.Sprintf("reason must not exceed %d characters", maxReasonLength),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParseDateRange parses inclusive YYYY-MM-DD bounds. Malformed dates and an
// end before the start both yield ErrInvalidDateRange.
func ParseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, ok := validator.IsValidDate(startDate)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date %q is not YYYY-MM-DD", ErrInvalidDateRange, startDate)
	}
	end, ok := validator.IsValidDate(endDate)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date %q is not YYYY-MM-DD", ErrInvalidDateRange, endDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date is before start_date", ErrInvalidDateRange)
	}
	return start, end, nil
}

// UpdateRequest carries the fields to change; nil fields keep their value.
type UpdateRequest struct {
	ID        string  `json:"-"`
	LeaveType *string `json:"leave_type,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	HalfDay   *bool   `json:"half_day,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Reason != nil && len(*r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: fmt.Sprintf("reason must not exceed %d characters", maxReasonLength),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply merges the changes into a copy of current and recomputes duration.
func (r *UpdateRequest) Apply(current LeaveRequest) (LeaveRequest, error) {
	next := current

	if r.LeaveType != nil {
		t, err := ParseLeaveType(*r.LeaveType)
		if err != nil {
			return LeaveRequest{}, err
		}
		next.LeaveType = t
	}

	startDate := next.StartDate.Format(validator.DateLayout)
	endDate := next.EndDate.Format(validator.DateLayout)
	if r.StartDate != nil {
		startDate = *r.StartDate
	}
	if r.EndDate != nil {
		endDate = *r.EndDate
	}
	start, end, err := ParseDateRange(startDate, endDate)
	if err != nil {
		return LeaveRequest{}, err
	}
	next.StartDate = start
	next.EndDate = end

	if r.HalfDay != nil {
		next.HalfDay = *r.HalfDay
	}
	if r.Reason != nil {
		next.Reason = *r.Reason
	}

	next.Duration = CalculateDuration(next.StartDate, next.EndDate, next.HalfDay)
	return next, nil
}

type DecideRequest struct {
	ID              string  `json:"-"`
	Status          string  `json:"status"`
	ApprovedBy      string  `json:"approved_by"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.ApprovedBy) {
		errs = append(errs, validator.ValidationError{
			Field:   "approved_by",
			Message: "approved_by is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// TargetStatus returns the requested terminal status. "Approved" and
// "approved" are the same decision.
func (r *DecideRequest) TargetStatus() (LeaveRequestStatus, error) {
	s := LeaveRequestStatus(strings.ToLower(strings.TrimSpace(r.Status)))
	if !s.IsTerminal() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

type LeaveRequestResponse struct {
	ID              string             `json:"id"`
	StaffID         string             `json:"staff_id"`
	LeaveType       LeaveType          `json:"leave_type"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	HalfDay         bool               `json:"half_day"`
	Duration        float64            `json:"duration"`
	Reason          string             `json:"reason"`
	Status          LeaveRequestStatus `json:"status"`
	ApprovedBy      *string            `json:"approved_by,omitempty"`
	ApprovedDate    *string            `json:"approved_date,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		StaffID:         r.StaffID,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate.Format(validator.DateLayout),
		EndDate:         r.EndDate.Format(validator.DateLayout),
		HalfDay:         r.HalfDay,
		Duration:        r.Duration,
		Reason:          r.Reason,
		Status:          r.Status,
		ApprovedBy:      r.ApprovedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ApprovedDate != nil {
		approved := r.ApprovedDate.Format(time.RFC3339)
		resp.ApprovedDate = &approved
	}
	return resp
}

func NewLeaveRequestResponses(requests []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, NewLeaveRequestResponse(r))
	}
	return out
}
