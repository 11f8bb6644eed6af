package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
)

type leaveRequestRepository struct {
	db *leaveTable
}

func NewLeaveRequestRepository(db *DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db.leave}
}

func cloneLeave(r leave.LeaveRequest) *leave.LeaveRequest {
	if r.ApprovedBy != nil {
		v := *r.ApprovedBy
		r.ApprovedBy = &v
	}
	if r.ApprovedDate != nil {
		v := *r.ApprovedDate
		r.ApprovedDate = &v
	}
	if r.RejectionReason != nil {
		v := *r.RejectionReason
		r.RejectionReason = &v
	}
	return &r
}

func (repo *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.t[request.ID] = cloneLeave(request)
	return request, nil
}

func (repo *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.t[id]; ok {
		return *cloneLeave(*r), nil
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (repo *leaveRequestRepository) UpdatePending(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.t[request.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if !stored.IsPending() {
		return leave.LeaveRequest{}, leave.ErrNotEditable
	}

	stored.LeaveType = request.LeaveType
	stored.StartDate = request.StartDate
	stored.EndDate = request.EndDate
	stored.HalfDay = request.HalfDay
	stored.Duration = request.Duration
	stored.Reason = request.Reason
	stored.UpdatedAt = request.UpdatedAt
	return *cloneLeave(*stored), nil
}

func (repo *leaveRequestRepository) DeletePending(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.t[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if !stored.IsPending() {
		return leave.ErrNotEditable
	}
	delete(repo.db.t, id)
	return nil
}

func (repo *leaveRequestRepository) Decide(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.t[request.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if !stored.IsPending() {
		return leave.LeaveRequest{}, leave.ErrAlreadyProcessed
	}

	decided := cloneLeave(request)
	stored.Status = decided.Status
	stored.ApprovedBy = decided.ApprovedBy
	stored.ApprovedDate = decided.ApprovedDate
	stored.RejectionReason = decided.RejectionReason
	stored.UpdatedAt = decided.UpdatedAt
	return *cloneLeave(*stored), nil
}

// query returns the matching requests. Callers hold the lock.
func (repo *leaveRequestRepository) query(match func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	requests := make([]leave.LeaveRequest, 0)
	for _, r := range repo.db.t {
		if match(*r) {
			requests = append(requests, *cloneLeave(*r))
		}
	}
	return requests
}

func (repo *leaveRequestRepository) ListPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	requests := repo.query(leave.LeaveRequest.IsPending)
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.Before(requests[j].CreatedAt)
		}
		return requests[i].ID < requests[j].ID
	})
	return requests, nil
}

func (repo *leaveRequestRepository) ListByStaff(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	requests := repo.query(func(r leave.LeaveRequest) bool { return r.StaffID == staffID })
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID > requests[j].ID
	})
	return requests, nil
}

func (repo *leaveRequestRepository) ListApproved(ctx context.Context, filter leave.ApprovedFilter) ([]leave.LeaveRequest, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	requests := repo.query(func(r leave.LeaveRequest) bool {
		return r.Status == leave.LeaveRequestStatusApproved && filter.Matches(r)
	})
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].StartDate.Equal(requests[j].StartDate) {
			return requests[i].StartDate.Before(requests[j].StartDate)
		}
		return requests[i].ID < requests[j].ID
	})
	return requests, nil
}
