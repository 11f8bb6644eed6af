package attendance

import (
	"context"
)

// ClockEngine records daily check-in/check-out pairs and summarizes them.
type ClockEngine interface {
	// CheckIn opens today's record for a staff member.
	CheckIn(ctx context.Context, req CheckInRequest) (Record, error)

	// CheckOut closes today's record and derives worked hours.
	CheckOut(ctx context.Context, req CheckOutRequest) (Record, error)

	// QueryAttendance lists records for a staff member.
	QueryAttendance(ctx context.Context, filter QueryFilter) ([]Record, error)

	// Summarize aggregates QueryAttendance results.
	Summarize(ctx context.Context, filter QueryFilter) (Summary, error)
}
