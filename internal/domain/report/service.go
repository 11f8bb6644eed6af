package report

import (
	"context"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
)

// Aggregator rolls attendance and leave records up into reports. It only
// reads; empty input yields empty results, never an error.
type Aggregator interface {
	MonthlyAttendance(ctx context.Context, req PeriodRequest) ([]AttendanceRow, error)
	AnnualAttendance(ctx context.Context, req YearRequest) ([]AnnualAttendanceRow, error)
	TopPerformers(ctx context.Context, req TopPerformersRequest) ([]PerformerRow, error)
	MonthlyLeave(ctx context.Context, req PeriodRequest) ([]leave.LeaveRequest, error)
	AnnualLeaveChart(ctx context.Context, req YearRequest) (LeaveChart, error)
	Predict(ctx context.Context, staffID string) (LeavePrediction, error)
}
