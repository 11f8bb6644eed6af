package attendance

import "github.com/cmlabs-hris/staff-ledger/internal/pkg/apperror"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyMarked = apperror.New(apperror.ErrConflict, "attendance already marked for today")

	// Check-out errors
	ErrNoCheckIn         = apperror.New(apperror.ErrNotFound, "no check-in recorded for today")
	ErrAlreadyCheckedOut = apperror.New(apperror.ErrConflict, "already checked out today")
	ErrInvalidTimestamp  = apperror.New(apperror.ErrInvalidTimestamp, "check-out time is before check-in time")

	// General errors
	ErrAttendanceNotFound = apperror.New(apperror.ErrNotFound, "attendance record not found")
)
