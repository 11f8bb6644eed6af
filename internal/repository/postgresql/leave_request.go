package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	id, staff_id, leave_type, start_date, end_date, half_day, duration, reason,
	status, approved_by, approved_date, rejection_reason, created_at, updated_at
`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	err := row.Scan(
		&r.ID, &r.StaffID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.HalfDay, &r.Duration, &r.Reason,
		&r.Status, &r.ApprovedBy, &r.ApprovedDate, &r.RejectionReason, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, staff_id, leave_type, start_date, end_date, half_day, duration, reason,
			status, approved_by, approved_date, rejection_reason, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.ID,
		request.StaffID,
		request.LeaveType,
		request.StartDate,
		request.EndDate,
		request.HalfDay,
		request.Duration,
		request.Reason,
		request.Status,
		request.ApprovedBy,
		request.ApprovedDate,
		request.RejectionReason,
		request.CreatedAt,
		request.UpdatedAt,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}

	return request, nil
}

// notPending resolves a conditional write that matched no row into either
// ErrLeaveRequestNotFound or the caller's state error.
func (r *leaveRequestRepositoryImpl) notPending(ctx context.Context, id string, stateErr error) error {
	var exists bool
	if err := GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check leave request: %w", err)
	}
	if !exists {
		return leave.ErrLeaveRequestNotFound
	}
	return stateErr
}

// UpdatePending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdatePending(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET leave_type = $1, start_date = $2, end_date = $3, half_day = $4,
			duration = $5, reason = $6, updated_at = $7
		WHERE id = $8 AND status = 'pending'
		RETURNING ` + leaveRequestColumns

	updated, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.LeaveType,
		request.StartDate,
		request.EndDate,
		request.HalfDay,
		request.Duration,
		request.Reason,
		request.UpdatedAt,
		request.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, r.notPending(ctx, request.ID, leave.ErrNotEditable)
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return updated, nil
}

// DeletePending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) DeletePending(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notPending(ctx, id, leave.ErrNotEditable)
	}

	return nil
}

// Decide implements leave.LeaveRequestRepository. Only one of several
// concurrent decisions can match status = 'pending'.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, approved_by = $2, approved_date = $3, rejection_reason = $4, updated_at = $5
		WHERE id = $6 AND status = 'pending'
		RETURNING ` + leaveRequestColumns

	decided, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.Status,
		request.ApprovedBy,
		request.ApprovedDate,
		request.RejectionReason,
		request.UpdatedAt,
		request.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, r.notPending(ctx, request.ID, leave.ErrAlreadyProcessed)
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to store leave decision: %w", err)
	}

	return decided, nil
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, where string, args []interface{}, orderBy string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE ` + where + ` ORDER BY ` + orderBy

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}

// ListPending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "status = 'pending'", nil, "created_at ASC, id ASC")
}

// ListByStaff implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByStaff(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "staff_id = $1", []interface{}{staffID}, "created_at DESC, id DESC")
}

// ListApproved implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApproved(ctx context.Context, filter leave.ApprovedFilter) ([]leave.LeaveRequest, error) {
	where := "status = 'approved'"
	args := []interface{}{}

	if filter.StaffID != "" {
		args = append(args, filter.StaffID)
		where += fmt.Sprintf(" AND staff_id = $%d", len(args))
	}
	if !filter.StartFrom.IsZero() {
		args = append(args, filter.StartFrom)
		where += fmt.Sprintf(" AND start_date >= $%d", len(args))
	}
	if !filter.StartTo.IsZero() {
		args = append(args, filter.StartTo)
		where += fmt.Sprintf(" AND start_date <= $%d", len(args))
	}
	if !filter.OverlapFrom.IsZero() && !filter.OverlapTo.IsZero() {
		args = append(args, filter.OverlapTo, filter.OverlapFrom)
		where += fmt.Sprintf(" AND start_date <= $%d AND end_date >= $%d", len(args)-1, len(args))
	}

	return r.list(ctx, where, args, "start_date ASC, id ASC")
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}
