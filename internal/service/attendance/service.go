package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/clock"
	"github.com/google/uuid"
)

// Config tunes how a check-in/check-out pair is classified.
type Config struct {
	// Location decides which calendar day an instant belongs to.
	Location *time.Location
	// HalfDayHours is the worked-hours threshold for a half day.
	HalfDayHours float64
	// LateAfter is the local time of day after which a check-in is late.
	// Zero disables late marking.
	LateAfter time.Duration
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	directory staff.Directory
	clock     clock.Clock
	cfg       Config
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	directory staff.Directory,
	clk clock.Clock,
	cfg Config,
) attendance.ClockEngine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.HalfDayHours <= 0 {
		cfg.HalfDayHours = attendance.DefaultHalfDayHours
	}
	if clk == nil {
		clk = clock.System()
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		directory:            directory,
		clock:                clk,
		cfg:                  cfg,
	}
}

func (a *AttendanceServiceImpl) today(now time.Time) time.Time {
	return clock.CivilDate(now, a.cfg.Location)
}

func (a *AttendanceServiceImpl) isLate(now time.Time) bool {
	if a.cfg.LateAfter <= 0 {
		return false
	}
	// Wall-clock time of day, so DST transition days keep the same cut-off.
	local := now.In(a.cfg.Location)
	sinceMidnight := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second +
		time.Duration(local.Nanosecond())
	return sinceMidnight > a.cfg.LateAfter
}

// CheckIn implements attendance.ClockEngine.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	if _, err := a.directory.GetStaff(ctx, req.StaffID); err != nil {
		return attendance.Record{}, err
	}

	now := a.clock.Now()
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	status := attendance.StatusPresent
	if a.isLate(now) {
		status = attendance.StatusLate
	}

	record := attendance.Record{
		ID:        id.String(),
		StaffID:   req.StaffID,
		Date:      a.today(now),
		CheckIn:   now,
		Status:    status,
		RFIDTag:   req.RFIDTag,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The store owns the one-per-day rule; a lost race surfaces here too.
	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return created, nil
}

// CheckOut implements attendance.ClockEngine.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	now := a.clock.Now()
	open, err := a.AttendanceRepository.GetByStaffAndDate(ctx, req.StaffID, a.today(now))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Record{}, attendance.ErrNoCheckIn
		}
		return attendance.Record{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	closed, err := open.Close(now, a.cfg.HalfDayHours)
	if err != nil {
		return attendance.Record{}, err
	}

	saved, err := a.AttendanceRepository.CloseSession(ctx, closed)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Record{}, fmt.Errorf("failed to close attendance record: %w", err)
	}

	return saved, nil
}

// QueryAttendance implements attendance.ClockEngine.
func (a *AttendanceServiceImpl) QueryAttendance(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if _, err := a.directory.GetStaff(ctx, filter.StaffID); err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.ListByStaff(ctx, filter.StaffID, filter.Range(), filter.Chronological)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return records, nil
}

// Summarize implements attendance.ClockEngine.
func (a *AttendanceServiceImpl) Summarize(ctx context.Context, filter attendance.QueryFilter) (attendance.Summary, error) {
	records, err := a.QueryAttendance(ctx, filter)
	if err != nil {
		return attendance.Summary{}, err
	}
	return attendance.Summarize(records), nil
}
