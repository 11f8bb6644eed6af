package attendance

import (
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/pkg/numeric"
)

type Status string

const (
	StatusPresent        Status = "present"
	StatusAbsent         Status = "absent"
	StatusHalfDay        Status = "half_day"
	StatusLate           Status = "late"
	StatusEarlyDeparture Status = "early_departure"
	StatusOnLeave        Status = "on_leave"
)

// DefaultHalfDayHours is the worked-hours threshold at or below which a day
// counts as a half day.
const DefaultHalfDayHours = 4.0

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLate, StatusEarlyDeparture, StatusOnLeave:
		return true
	}
	return false
}

// Record is one staff member's attendance for one civil day.
type Record struct {
	ID      string
	StaffID string
	// Date is the working day at midnight UTC, not an instant.
	Date         time.Time
	CheckIn      time.Time
	CheckOut     *time.Time
	WorkingHours float64
	Status       Status
	RFIDTag      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r Record) IsOpen() bool {
	return r.CheckOut == nil
}

// Close stamps the check-out and re-derives worked hours and status from the
// check-in/check-out pair. The receiver is left untouched on error.
func (r Record) Close(at time.Time, halfDayHours float64) (Record, error) {
	if !r.IsOpen() {
		return Record{}, ErrAlreadyCheckedOut
	}
	if at.Before(r.CheckIn) {
		return Record{}, ErrInvalidTimestamp
	}

	checkOut := at
	r.CheckOut = &checkOut
	r.WorkingHours = numeric.Hours(checkOut.Sub(r.CheckIn))
	// Inclusive: exactly halfDayHours (4.0 by default) is a half day.
	if r.WorkingHours <= halfDayHours {
		r.Status = StatusHalfDay
	}
	r.UpdatedAt = at
	return r, nil
}
