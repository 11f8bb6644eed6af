package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/clock"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
	"github.com/google/uuid"
)

const notifyTimeout = 30 * time.Second

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	directory staff.Directory
	notifier  staff.Notifier
	clock     clock.Clock
}

func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	directory staff.Directory,
	notifier staff.Notifier,
	clk clock.Clock,
) leave.Ledger {
	if clk == nil {
		clk = clock.System()
	}
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		directory:              directory,
		notifier:               notifier,
		clock:                  clk,
	}
}

// Get implements leave.Ledger.
func (l *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if validator.IsEmpty(id) {
		return leave.LeaveRequest{}, validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return l.getByID(ctx, id)
}

// Apply implements leave.Ledger. Balance sufficiency is not checked here.
func (l *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	leaveType, err := leave.ParseLeaveType(req.LeaveType)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	start, end, err := leave.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	if _, err := l.directory.GetStaff(ctx, req.StaffID); err != nil {
		return leave.LeaveRequest{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	now := l.clock.Now()
	request := leave.LeaveRequest{
		ID:        id.String(),
		StaffID:   req.StaffID,
		LeaveType: leaveType,
		StartDate: start,
		EndDate:   end,
		HalfDay:   req.HalfDay,
		Duration:  leave.CalculateDuration(start, end, req.HalfDay),
		Reason:    req.Reason,
		Status:    leave.LeaveRequestStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return created, nil
}

// Update implements leave.Ledger.
func (l *LeaveServiceImpl) Update(ctx context.Context, req leave.UpdateRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	current, err := l.getByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !current.IsPending() {
		return leave.LeaveRequest{}, leave.ErrNotEditable
	}

	next, err := req.Apply(current)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	next.UpdatedAt = l.clock.Now()

	updated, err := l.LeaveRequestRepository.UpdatePending(ctx, next)
	if err != nil {
		if errors.Is(err, leave.ErrNotEditable) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return updated, nil
}

// Withdraw implements leave.Ledger.
func (l *LeaveServiceImpl) Withdraw(ctx context.Context, id string) error {
	if validator.IsEmpty(id) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}

	current, err := l.getByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.IsPending() {
		return leave.ErrNotEditable
	}

	if err := l.LeaveRequestRepository.DeletePending(ctx, id); err != nil {
		if errors.Is(err, leave.ErrNotEditable) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete leave request: %w", err)
	}

	return nil
}

// Decide implements leave.Ledger. The staff member is notified after the
// decision is stored; a failed notification only gets logged.
func (l *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	status, err := req.TargetStatus()
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	current, err := l.getByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !current.IsPending() {
		return leave.LeaveRequest{}, leave.ErrAlreadyProcessed
	}

	now := l.clock.Now()
	approvedBy := req.ApprovedBy

	decided := current
	decided.Status = status
	decided.ApprovedBy = &approvedBy
	decided.ApprovedDate = &now
	decided.RejectionReason = nil
	if status == leave.LeaveRequestStatusRejected && req.RejectionReason != nil {
		reason := *req.RejectionReason
		decided.RejectionReason = &reason
	}
	decided.UpdatedAt = now

	saved, err := l.LeaveRequestRepository.Decide(ctx, decided)
	if err != nil {
		if errors.Is(err, leave.ErrAlreadyProcessed) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to store leave decision: %w", err)
	}

	if l.notifier != nil {
		go l.notifyDecision(context.WithoutCancel(ctx), saved)
	}

	return saved, nil
}

func (l *LeaveServiceImpl) notifyDecision(ctx context.Context, request leave.LeaveRequest) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	member, err := l.directory.GetStaff(ctx, request.StaffID)
	if err != nil {
		slog.Error("Failed to look up staff for leave notification", "leave_request_id", request.ID, "staff_id", request.StaffID, "error", err)
		return
	}
	if member.ContactHandle == "" {
		slog.Warn("Staff has no contact handle, skipping leave notification", "staff_id", member.ID)
		return
	}

	msg := staff.Message{
		Kind:    staff.MessageLeaveDecided,
		Subject: "Leave request " + string(request.Status),
		Body:    DecisionMessage(member, request),
	}
	if err := l.notifier.Notify(ctx, member.ContactHandle, msg); err != nil {
		slog.Error("Failed to send leave decision notification", "leave_request_id", request.ID, "staff_id", member.ID, "error", err)
		return
	}

	slog.Info("Leave decision notification sent", "leave_request_id", request.ID, "staff_id", member.ID, "status", request.Status)
}

// DecisionMessage renders the text sent to a staff member after a decision.
func DecisionMessage(member staff.Staff, request leave.LeaveRequest) string {
	name := member.DisplayName
	if name == "" {
		name = member.ID
	}

	msg := fmt.Sprintf("Dear %s, your %s leave request for %s to %s (%s days) has been %s.",
		name,
		request.LeaveType,
		request.StartDate.Format(validator.DateLayout),
		request.EndDate.Format(validator.DateLayout),
		formatDays(request.Duration),
		request.Status,
	)
	if request.RejectionReason != nil && *request.RejectionReason != "" {
		msg += " Reason: " + *request.RejectionReason
	}
	return msg
}

func formatDays(d float64) string {
	if d == float64(int64(d)) {
		return fmt.Sprintf("%d", int64(d))
	}
	return fmt.Sprintf("%.1f", d)
}

// Balance implements leave.Ledger.
func (l *LeaveServiceImpl) Balance(ctx context.Context, staffID string, year int) (leave.Balance, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(staffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "staff_id is required"})
	}
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year is out of range"})
	}
	if len(errs) > 0 {
		return leave.Balance{}, errs
	}

	member, err := l.directory.GetStaff(ctx, staffID)
	if err != nil {
		return leave.Balance{}, err
	}

	from, to := clock.YearWindow(year)
	approved, err := l.LeaveRequestRepository.ListApproved(ctx, leave.ApprovedFilter{
		StaffID:   staffID,
		StartFrom: from,
		StartTo:   to,
	})
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to list approved leave: %w", err)
	}

	entitlement := member.Allocation()
	var allocation leave.Amounts
	allocation.Add(leave.LeaveTypeAnnual, entitlement.Annual)
	allocation.Add(leave.LeaveTypeCasual, entitlement.Casual)
	allocation.Add(leave.LeaveTypeMedical, entitlement.Medical)
	allocation.Add(leave.LeaveTypeOther, entitlement.Other)

	var taken leave.Amounts
	for _, r := range approved {
		taken.Add(r.LeaveType, r.Duration)
	}

	return leave.Balance{
		StaffID:    staffID,
		Year:       year,
		Allocation: allocation,
		Taken:      taken,
		Remaining:  allocation.Minus(taken),
	}, nil
}

// ListPending implements leave.Ledger.
func (l *LeaveServiceImpl) ListPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	requests, err := l.LeaveRequestRepository.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return requests, nil
}

// ListForStaff implements leave.Ledger.
func (l *LeaveServiceImpl) ListForStaff(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	if validator.IsEmpty(staffID) {
		return nil, validator.ValidationErrors{{Field: "staff_id", Message: "staff_id is required"}}
	}

	if _, err := l.directory.GetStaff(ctx, staffID); err != nil {
		return nil, err
	}

	requests, err := l.LeaveRequestRepository.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

func (l *LeaveServiceImpl) getByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}
