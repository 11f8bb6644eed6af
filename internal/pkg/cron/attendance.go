package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/clock"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
)

// reminderLookbackDays bounds how far back open sessions are reported.
const reminderLookbackDays = 7

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	directory      staff.Directory
	notifier       staff.Notifier
	clock          clock.Clock
	location       *time.Location
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	directory staff.Directory,
	notifier staff.Notifier,
	clk clock.Clock,
	location *time.Location,
) *AttendanceJobs {
	if clk == nil {
		clk = clock.System()
	}
	if location == nil {
		location = time.UTC
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		directory:      directory,
		notifier:       notifier,
		clock:          clk,
		location:       location,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("remind_open_sessions", interval, func(ctx context.Context) error {
		_, err := j.RemindOpenSessions(ctx)
		return err
	})
}

// RemindOpenSessions notifies staff whose records from the past week were
// never checked out. Records are not modified. It returns the number of
// reminders delivered.
func (j *AttendanceJobs) RemindOpenSessions(ctx context.Context) (int, error) {
	today := clock.CivilDate(j.clock.Now(), j.location)

	records, err := j.attendanceRepo.ListByRange(ctx, attendance.DateRange{
		From: today.AddDate(0, 0, -reminderLookbackDays),
		To:   today.AddDate(0, 0, -1),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list recent attendance: %w", err)
	}

	sent := 0
	for _, record := range records {
		if !record.IsOpen() {
			continue
		}

		member, err := j.directory.GetStaff(ctx, record.StaffID)
		if err != nil {
			slog.Warn("Cron: Skipping reminder for unknown staff", "staff_id", record.StaffID, "error", err)
			continue
		}

		msg := staff.Message{
			Kind:    staff.MessageOpenSession,
			Subject: "Missing check-out for " + record.Date.Format(validator.DateLayout),
			Body:    OpenSessionMessage(member, record, j.location),
		}
		if err := j.notifier.Notify(ctx, member.ContactHandle, msg); err != nil {
			slog.Error("Cron: Failed to send check-out reminder", "staff_id", record.StaffID, "date", record.Date, "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		slog.Info("Cron: Check-out reminders sent", "count", sent)
	}
	return sent, nil
}

// OpenSessionMessage renders the reminder for a record with no check-out.
func OpenSessionMessage(member staff.Staff, record attendance.Record, location *time.Location) string {
	name := member.DisplayName
	if name == "" {
		name = member.ID
	}
	return fmt.Sprintf("Dear %s, you checked in at %s on %s but no check-out was recorded.",
		name,
		record.CheckIn.In(location).Format("15:04"),
		record.Date.Format(validator.DateLayout),
	)
}
