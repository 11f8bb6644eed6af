package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateDuration(t *testing.T) {
	cases := []struct {
		start, end string
		halfDay    bool
		want       float64
	}{
		{"2024-03-10", "2024-03-12", false, 3},
		{"2024-03-10", "2024-03-12", true, 2.5},
		{"2024-03-10", "2024-03-10", false, 1},
		{"2024-03-10", "2024-03-10", true, 0.5},
		{"2024-02-28", "2024-03-01", false, 3}, // leap year
		{"2023-12-30", "2024-01-02", false, 4},
		{"1850-01-01", "2199-12-31", false, 127835},
		{"0001-01-01", "9999-12-31", false, 3652059},
	}
	for _, c := range cases {
		got := CalculateDuration(day(c.start), day(c.end), c.halfDay)
		assert.Equal(t, c.want, got, "%s..%s halfDay=%v", c.start, c.end, c.halfDay)
		assert.Greater(t, got, 0.0)
	}
}

func TestParseDateRange(t *testing.T) {
	start, end, err := ParseDateRange("2024-04-28", "2024-05-03")
	require.NoError(t, err)
	assert.Equal(t, day("2024-04-28"), start)
	assert.Equal(t, day("2024-05-03"), end)

	for _, c := range [][2]string{
		{"2024-05-03", "2024-04-28"},
		{"2024-13-01", "2024-12-01"},
		{"2024-01-01", ""},
		{"yesterday", "2024-01-01"},
	} {
		_, _, err := ParseDateRange(c[0], c[1])
		assert.ErrorIs(t, err, ErrInvalidDateRange, "%v", c)
	}
}

func TestParseLeaveType(t *testing.T) {
	for _, lt := range AllLeaveTypes() {
		got, err := ParseLeaveType(string(lt))
		require.NoError(t, err)
		assert.Equal(t, lt, got)
	}
	for in, want := range map[string]LeaveType{"Annual": LeaveTypeAnnual, " MEDICAL ": LeaveTypeMedical, "Casual": LeaveTypeCasual} {
		got, err := ParseLeaveType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseLeaveType("sabbatical")
	assert.ErrorIs(t, err, ErrInvalidLeaveType)
}

func TestLeaveRequest_Overlaps(t *testing.T) {
	r := LeaveRequest{StartDate: day("2024-04-28"), EndDate: day("2024-05-03")}

	assert.True(t, r.Overlaps(day("2024-05-01"), day("2024-05-31")))
	assert.True(t, r.Overlaps(day("2024-04-01"), day("2024-04-30")))
	assert.True(t, r.Overlaps(day("2024-05-03"), day("2024-05-03")))
	assert.False(t, r.Overlaps(day("2024-05-04"), day("2024-05-31")))
	assert.False(t, r.Overlaps(day("2024-03-01"), day("2024-04-27")))
}

func TestAmounts_AddAndMinus(t *testing.T) {
	allocation := Amounts{}
	allocation.Add(LeaveTypeAnnual, 14)
	allocation.Add(LeaveTypeCasual, 7)
	allocation.Add(LeaveTypeMedical, 21)
	assert.Equal(t, 42.0, allocation.Total)

	var taken Amounts
	taken.Add(LeaveTypeAnnual, 3)
	taken.Add(LeaveTypeAnnual, 0.5)
	taken.Add(LeaveTypeOther, 2)

	remaining := allocation.Minus(taken)
	assert.Equal(t, 10.5, remaining.Annual)
	assert.Equal(t, 7.0, remaining.Casual)
	assert.Equal(t, -2.0, remaining.Other)
	assert.Equal(t, 36.5, remaining.Total)

	b := Balance{Remaining: remaining}
	assert.True(t, b.IsOverdrawn())
}

func TestUpdateRequest_Apply(t *testing.T) {
	current := LeaveRequest{
		ID:        "L1",
		StaffID:   "S1",
		LeaveType: LeaveTypeAnnual,
		StartDate: day("2024-03-10"),
		EndDate:   day("2024-03-12"),
		Duration:  3,
		Status:    LeaveRequestStatusPending,
	}

	halfDay := true
	endDate := "2024-03-14"
	next, err := (&UpdateRequest{ID: "L1", EndDate: &endDate, HalfDay: &halfDay}).Apply(current)
	require.NoError(t, err)
	assert.Equal(t, 4.5, next.Duration)
	assert.Equal(t, day("2024-03-14"), next.EndDate)
	assert.Equal(t, 3.0, current.Duration, "current must not be mutated")

	badEnd := "2024-03-01"
	_, err = (&UpdateRequest{ID: "L1", EndDate: &badEnd}).Apply(current)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	badType := "vacation"
	_, err = (&UpdateRequest{ID: "L1", LeaveType: &badType}).Apply(current)
	assert.ErrorIs(t, err, ErrInvalidLeaveType)
}

func TestDecideRequest_TargetStatus(t *testing.T) {
	for in, want := range map[string]LeaveRequestStatus{
		"approved": LeaveRequestStatusApproved,
		"Approved": LeaveRequestStatusApproved,
		"rejected": LeaveRequestStatusRejected,
		"REJECTED": LeaveRequestStatusRejected,
	} {
		got, err := (&DecideRequest{Status: in}).TargetStatus()
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, s := range []string{"pending", "Pending", ""} {
		_, err := (&DecideRequest{Status: s}).TargetStatus()
		assert.ErrorIs(t, err, ErrInvalidStatus, s)
	}
}
