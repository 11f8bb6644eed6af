package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRecord(checkIn time.Time) Record {
	return Record{
		ID:      "rec-1",
		StaffID: "S1",
		Date:    time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC),
		CheckIn: checkIn,
		Status:  StatusPresent,
	}
}

func TestRecord_Close_WorkingHoursAndStatus(t *testing.T) {
	checkIn := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		worked     time.Duration
		wantHours  float64
		wantStatus Status
	}{
		{"full day", 8 * time.Hour, 8, StatusPresent},
		{"four hours exactly", 4 * time.Hour, 4, StatusHalfDay},
		{"just over four hours", 4*time.Hour + 1*time.Minute, 4.02, StatusPresent},
		{"short day", 2*time.Hour + 30*time.Minute, 2.5, StatusHalfDay},
		{"zero length", 0, 0, StatusHalfDay},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			closed, err := openRecord(checkIn).Close(checkIn.Add(c.worked), DefaultHalfDayHours)
			require.NoError(t, err)
			require.NotNil(t, closed.CheckOut)
			assert.Equal(t, c.wantHours, closed.WorkingHours)
			assert.Equal(t, c.wantStatus, closed.Status)
			assert.False(t, closed.CheckOut.Before(closed.CheckIn))
		})
	}
}

func TestRecord_Close_RegressedClock(t *testing.T) {
	checkIn := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	rec := openRecord(checkIn)

	_, err := rec.Close(checkIn.Add(-time.Minute), DefaultHalfDayHours)
	assert.True(t, errors.Is(err, ErrInvalidTimestamp))
	assert.True(t, rec.IsOpen())
}

func TestRecord_Close_AlreadyClosed(t *testing.T) {
	checkIn := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	closed, err := openRecord(checkIn).Close(checkIn.Add(5*time.Hour), DefaultHalfDayHours)
	require.NoError(t, err)

	_, err = closed.Close(checkIn.Add(6*time.Hour), DefaultHalfDayHours)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
}

func TestRecord_Close_LateStaysLateOnFullDay(t *testing.T) {
	checkIn := time.Date(2024, 3, 4, 9, 45, 0, 0, time.UTC)
	rec := openRecord(checkIn)
	rec.Status = StatusLate

	closed, err := rec.Close(checkIn.Add(7*time.Hour), DefaultHalfDayHours)
	require.NoError(t, err)
	assert.Equal(t, StatusLate, closed.Status)
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{Status: StatusPresent, WorkingHours: 8},
		{Status: StatusHalfDay, WorkingHours: 3.5},
		{Status: StatusLate, WorkingHours: 7.25},
		{Status: StatusAbsent},
	}

	s := Summarize(records)
	assert.Equal(t, 4, s.TotalDays)
	assert.Equal(t, 1, s.PresentDays)
	assert.Equal(t, 1, s.HalfDays)
	assert.Equal(t, 1, s.LateDays)
	assert.Equal(t, 1, s.AbsentDays)
	assert.Equal(t, 18.75, s.TotalWorkingHours)
	assert.Equal(t, 4.69, s.AverageWorkingHours)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
}

func TestQueryFilter_Validate(t *testing.T) {
	valid := []QueryFilter{
		{StaffID: "S1"},
		{StaffID: "S1", Month: 3, Year: 2024},
		{StaffID: "S1", Year: 2024},
		{StaffID: "S1", StartDate: "2024-03-01", EndDate: "2024-03-31"},
		{StaffID: "S1", StartDate: "2024-03-01"},
	}
	for _, f := range valid {
		assert.NoError(t, f.Validate(), "%+v", f)
	}

	invalid := []QueryFilter{
		{},
		{StaffID: "S1", Month: 13, Year: 2024},
		{StaffID: "S1", Month: 3},
		{StaffID: "S1", Month: 3, Year: 2024, StartDate: "2024-03-01"},
		{StaffID: "S1", StartDate: "2024-03-31", EndDate: "2024-03-01"},
		{StaffID: "S1", StartDate: "03/01/2024"},
	}
	for _, f := range invalid {
		assert.Error(t, f.Validate(), "%+v", f)
	}
}

func TestQueryFilter_Range(t *testing.T) {
	r := QueryFilter{StaffID: "S1", Month: 2, Year: 2024}.Range()
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), r.To)

	r = QueryFilter{StaffID: "S1", StartDate: "2024-05-02"}.Range()
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), r.From)
	assert.True(t, r.To.IsZero())
	assert.True(t, r.Contains(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
}
