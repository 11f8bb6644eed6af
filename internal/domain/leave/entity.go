package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/pkg/numeric"
)

type LeaveType string

const (
	LeaveTypeAnnual  LeaveType = "annual"
	LeaveTypeCasual  LeaveType = "casual"
	LeaveTypeMedical LeaveType = "medical"
	LeaveTypeOther   LeaveType = "other"
)

// AllLeaveTypes lists leave types in reporting order.
func AllLeaveTypes() []LeaveType {
	return []LeaveType{LeaveTypeAnnual, LeaveTypeCasual, LeaveTypeMedical, LeaveTypeOther}
}

func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeCasual, LeaveTypeMedical, LeaveTypeOther:
		return true
	}
	return false
}

// ParseLeaveType accepts the type names in any case ("Annual", "annual")
// and returns the lowercase canonical form.
func ParseLeaveType(s string) (LeaveType, error) {
	t := LeaveType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidLeaveType
	}
	return t, nil
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s LeaveRequestStatus) IsTerminal() bool {
	return s == LeaveRequestStatusApproved || s == LeaveRequestStatusRejected
}

// LeaveRequest entity
type LeaveRequest struct {
	ID        string
	StaffID   string
	LeaveType LeaveType

	// Inclusive civil days at midnight UTC.
	StartDate time.Time
	EndDate   time.Time

	// HalfDay deducts half a day from the whole request, not per day.
	HalfDay  bool
	Duration float64
	Reason   string

	Status          LeaveRequestStatus
	ApprovedBy      *string
	ApprovedDate    *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == LeaveRequestStatusPending
}

// Overlaps reports whether the request touches any day in [from, to].
func (r LeaveRequest) Overlaps(from, to time.Time) bool {
	return !r.StartDate.After(to) && !r.EndDate.Before(from)
}

const secondsPerDay = 24 * 60 * 60

// civilDay numbers a calendar date as days since 1970-01-01. Dates are
// counted from Unix seconds so ranges across the whole 0001..9999 span work.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	return int(civilDay(end)-civilDay(start)) + 1
}

// CalculateDuration returns the leave duration in days. Callers must have
// checked end >= start, which keeps the result above zero.
func CalculateDuration(start, end time.Time, halfDay bool) float64 {
	days := float64(InclusiveDays(start, end))
	if halfDay {
		days -= 0.5
	}
	return days
}

// Amounts holds a day count per leave type plus their total.
type Amounts struct {
	Annual  float64 `json:"annual"`
	Casual  float64 `json:"casual"`
	Medical float64 `json:"medical"`
	Other   float64 `json:"other"`
	Total   float64 `json:"total"`
}

func (a Amounts) Get(t LeaveType) float64 {
	switch t {
	case LeaveTypeAnnual:
		return a.Annual
	case LeaveTypeCasual:
		return a.Casual
	case LeaveTypeMedical:
		return a.Medical
	case LeaveTypeOther:
		return a.Other
	}
	return 0
}

// Add credits days to a type and to the total.
func (a *Amounts) Add(t LeaveType, days float64) {
	switch t {
	case LeaveTypeAnnual:
		a.Annual = numeric.Sum(a.Annual, days)
	case LeaveTypeCasual:
		a.Casual = numeric.Sum(a.Casual, days)
	case LeaveTypeMedical:
		a.Medical = numeric.Sum(a.Medical, days)
	case LeaveTypeOther:
		a.Other = numeric.Sum(a.Other, days)
	default:
		return
	}
	a.Total = numeric.Sum(a.Total, days)
}

// Minus subtracts b from a per type. Results may go negative.
func (a Amounts) Minus(b Amounts) Amounts {
	var out Amounts
	for _, t := range AllLeaveTypes() {
		out.Add(t, numeric.Sum(a.Get(t), -b.Get(t)))
	}
	return out
}

// Balance is derived on every query, never stored.
type Balance struct {
	StaffID    string  `json:"staff_id"`
	Year       int     `json:"year"`
	Allocation Amounts `json:"allocation"`
	Taken      Amounts `json:"taken"`
	// Remaining is allocation minus taken; negative means over-drawn.
	Remaining Amounts `json:"remaining"`
}

// IsOverdrawn reports whether any leave type has negative remaining days.
func (b Balance) IsOverdrawn() bool {
	for _, t := range AllLeaveTypes() {
		if b.Remaining.Get(t) < 0 {
			return true
		}
	}
	return false
}
