package leave

import (
	"context"
)

// Ledger processes leave applications and reports balances.
type Ledger interface {
	Get(ctx context.Context, id string) (LeaveRequest, error)
	Apply(ctx context.Context, req ApplyRequest) (LeaveRequest, error)
	Update(ctx context.Context, req UpdateRequest) (LeaveRequest, error)
	Withdraw(ctx context.Context, id string) error
	Decide(ctx context.Context, req DecideRequest) (LeaveRequest, error)
	Balance(ctx context.Context, staffID string, year int) (Balance, error)
	ListPending(ctx context.Context) ([]LeaveRequest, error)
	ListForStaff(ctx context.Context, staffID string) ([]LeaveRequest, error)
}
