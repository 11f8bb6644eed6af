package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE raised for a duplicate key.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const attendanceColumns = `
	id, staff_id, date, check_in, check_out, working_hours, status, rfid_tag, created_at, updated_at
`

type attendanceRepository struct {
	db *database.DB
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	err := row.Scan(
		&r.ID, &r.StaffID, &r.Date, &r.CheckIn, &r.CheckOut,
		&r.WorkingHours, &r.Status, &r.RFIDTag, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, staff_id, date, check_in, check_out, working_hours, status, rfid_tag, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		record.ID,
		record.StaffID,
		record.Date,
		record.CheckIn,
		record.CheckOut,
		record.WorkingHours,
		record.Status,
		record.RFIDTag,
		record.CreatedAt,
		record.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return created, nil
}

// GetByStaffAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE staff_id = $1 AND date = $2
	`

	record, err := scanAttendance(q.QueryRow(ctx, query, staffID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by staff and date: %w", err)
	}

	return record, nil
}

// CloseSession implements attendance.AttendanceRepository. The check_out IS
// NULL guard makes concurrent check-outs race safely.
func (a *attendanceRepository) CloseSession(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out = $1, working_hours = $2, status = $3, updated_at = $4
		WHERE id = $5 AND check_out IS NULL
		RETURNING ` + attendanceColumns

	closed, err := scanAttendance(q.QueryRow(ctx, query,
		record.CheckOut,
		record.WorkingHours,
		record.Status,
		record.UpdatedAt,
		record.ID,
	))
	if err == nil {
		return closed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Record{}, fmt.Errorf("failed to close attendance record: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendance_records WHERE id = $1)`, record.ID).Scan(&exists); err != nil {
		return attendance.Record{}, fmt.Errorf("failed to check attendance record: %w", err)
	}
	if !exists {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return attendance.Record{}, attendance.ErrAlreadyCheckedOut
}

// rangeWhere appends date bounds to a WHERE clause.
func rangeWhere(where string, args []interface{}, dateRange attendance.DateRange) (string, []interface{}) {
	if !dateRange.From.IsZero() {
		args = append(args, dateRange.From)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !dateRange.To.IsZero() {
		args = append(args, dateRange.To)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	return where, args
}

func (a *attendanceRepository) list(ctx context.Context, where string, args []interface{}, orderBy string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE ` + where + ` ORDER BY ` + orderBy

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		r, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

// ListByStaff implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByStaff(ctx context.Context, staffID string, dateRange attendance.DateRange, chronological bool) ([]attendance.Record, error) {
	where, args := rangeWhere("staff_id = $1", []interface{}{staffID}, dateRange)

	orderBy := "date DESC"
	if chronological {
		orderBy = "date ASC"
	}

	return a.list(ctx, where, args, orderBy)
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, dateRange attendance.DateRange) ([]attendance.Record, error) {
	where, args := rangeWhere("TRUE", nil, dateRange)
	return a.list(ctx, where, args, "date ASC, check_in ASC, staff_id ASC")
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
