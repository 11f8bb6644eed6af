package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_MONGODB_URI using a throwaway database.
func newTestDB(t *testing.T) *database.MongoDB {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	ctx := context.Background()
	db, err := database.NewMongoDB(ctx, uri, fmt.Sprintf("ledger_test_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	require.NoError(t, EnsureIndexes(ctx, db))

	t.Cleanup(func() {
		_ = db.Database.Drop(ctx)
		_ = db.Close(ctx)
	})
	return db
}

func day(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func TestAttendanceRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAttendanceRepository(db)

	checkIn := day("2024-03-11").Add(9 * time.Hour)
	rec := attendance.Record{
		ID: "a1", StaffID: "S1", Date: day("2024-03-11"), CheckIn: checkIn,
		Status: attendance.StatusPresent, CreatedAt: checkIn, UpdatedAt: checkIn,
	}
	_, err := repo.Create(ctx, rec)
	require.NoError(t, err)

	dup := rec
	dup.ID = "a2"
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)

	open, err := repo.GetByStaffAndDate(ctx, "S1", day("2024-03-11"))
	require.NoError(t, err)
	assert.True(t, open.IsOpen())

	closed, err := open.Close(checkIn.Add(8*time.Hour), attendance.DefaultHalfDayHours)
	require.NoError(t, err)
	saved, err := repo.CloseSession(ctx, closed)
	require.NoError(t, err)
	assert.Equal(t, 8.0, saved.WorkingHours)

	_, err = repo.CloseSession(ctx, closed)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	list, err := repo.ListByStaff(ctx, "S1", attendance.DateRange{From: day("2024-03-01")}, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLeaveRequestRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewLeaveRequestRepository(db)

	now := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	req := leave.LeaveRequest{
		ID: "l1", StaffID: "S1", LeaveType: leave.LeaveTypeAnnual,
		StartDate: day("2024-04-28"), EndDate: day("2024-05-03"), Duration: 6,
		Status: leave.LeaveRequestStatusPending, CreatedAt: now, UpdatedAt: now,
	}
	_, err := repo.Create(ctx, req)
	require.NoError(t, err)

	approver := "A1"
	decided := req
	decided.Status = leave.LeaveRequestStatusApproved
	decided.ApprovedBy = &approver
	decided.ApprovedDate = &now

	_, err = repo.Decide(ctx, decided)
	require.NoError(t, err)
	_, err = repo.Decide(ctx, decided)
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)

	_, err = repo.UpdatePending(ctx, req)
	assert.ErrorIs(t, err, leave.ErrNotEditable)
	assert.ErrorIs(t, repo.DeletePending(ctx, "missing"), leave.ErrLeaveRequestNotFound)

	may, err := repo.ListApproved(ctx, leave.ApprovedFilter{OverlapFrom: day("2024-05-01"), OverlapTo: day("2024-05-31")})
	require.NoError(t, err)
	assert.Len(t, may, 1)
}

func TestStaffDirectory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	dir := NewStaffDirectory(db)

	custom := staff.Entitlement{Annual: 20, Casual: 5, Medical: 10}
	require.NoError(t, dir.Upsert(ctx, staff.Staff{ID: "S1", DisplayName: "Sarah", Entitlement: &custom}))

	s, err := dir.GetStaff(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, custom, s.Allocation())

	_, err = dir.GetStaff(ctx, "S2")
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
}
