package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/report"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/clock"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/numeric"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	directory      staff.Directory
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	directory staff.Directory,
) report.Aggregator {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		directory:      directory,
	}
}

// tally accumulates one staff member's records.
type tally struct {
	row          report.AttendanceRow
	monthlyHours [12]float64
}

func (t *tally) add(r attendance.Record) {
	t.row.TotalDays++
	switch r.Status {
	case attendance.StatusPresent:
		t.row.PresentDays++
	case attendance.StatusHalfDay:
		t.row.HalfDays++
	case attendance.StatusAbsent:
		t.row.AbsentDays++
	case attendance.StatusLate:
		t.row.LateDays++
	}
	t.row.TotalWorkingHours = numeric.Sum(t.row.TotalWorkingHours, r.WorkingHours)
	m := int(r.Date.Month()) - 1
	t.monthlyHours[m] = numeric.Sum(t.monthlyHours[m], r.WorkingHours)
}

// groupByStaff folds records into one tally per staff member, ordered by
// each staff member's first record.
func groupByStaff(records []attendance.Record) []*tally {
	index := make(map[string]*tally)
	order := make([]*tally, 0)
	for _, r := range records {
		t, ok := index[r.StaffID]
		if !ok {
			t = &tally{row: report.AttendanceRow{StaffID: r.StaffID}}
			index[r.StaffID] = t
			order = append(order, t)
		}
		t.add(r)
	}
	return order
}

// MonthlyAttendance implements report.Aggregator. Staff without records in
// the month get no row.
func (s *ReportServiceImpl) MonthlyAttendance(ctx context.Context, req report.PeriodRequest) ([]report.AttendanceRow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, to := clock.MonthWindow(req.Year, req.Month)
	records, err := s.attendanceRepo.ListByRange(ctx, attendance.DateRange{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	groups := groupByStaff(records)
	rows := make([]report.AttendanceRow, 0, len(groups))
	for _, g := range groups {
		g.row.TotalWorkingHours = numeric.Round(g.row.TotalWorkingHours, 2)
		rows = append(rows, g.row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StaffID < rows[j].StaffID })

	return rows, nil
}

// AnnualAttendance implements report.Aggregator.
func (s *ReportServiceImpl) AnnualAttendance(ctx context.Context, req report.YearRequest) ([]report.AnnualAttendanceRow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, to := clock.YearWindow(req.Year)
	records, err := s.attendanceRepo.ListByRange(ctx, attendance.DateRange{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	groups := groupByStaff(records)
	rows := make([]report.AnnualAttendanceRow, 0, len(groups))
	for _, g := range groups {
		row := report.AnnualAttendanceRow{AttendanceRow: g.row}
		row.TotalWorkingHours = numeric.Round(row.TotalWorkingHours, 2)
		for i, h := range g.monthlyHours {
			row.MonthlyHours[i] = numeric.Round(h, 2)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StaffID < rows[j].StaffID })

	return rows, nil
}

// TopPerformers implements report.Aggregator. Ties keep the order in which
// staff first appear in the window.
func (s *ReportServiceImpl) TopPerformers(ctx context.Context, req report.TopPerformersRequest) ([]report.PerformerRow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, to := req.Window()
	records, err := s.attendanceRepo.ListByRange(ctx, attendance.DateRange{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	groups := groupByStaff(records)
	rows := make([]report.PerformerRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, report.PerformerRow{
			StaffID:              g.row.StaffID,
			TotalDays:            g.row.TotalDays,
			PresentDays:          g.row.PresentDays,
			TotalWorkingHours:    numeric.Round(g.row.TotalWorkingHours, 2),
			AttendancePercentage: numeric.Div(float64(g.row.PresentDays)*100, float64(g.row.TotalDays), 2),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AttendancePercentage > rows[j].AttendancePercentage
	})
	if len(rows) > req.Limit {
		rows = rows[:req.Limit]
	}

	return rows, nil
}

// MonthlyLeave implements report.Aggregator. A request appears in every
// month it touches.
func (s *ReportServiceImpl) MonthlyLeave(ctx context.Context, req report.PeriodRequest) ([]leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, to := clock.MonthWindow(req.Year, req.Month)
	requests, err := s.leaveRepo.ListApproved(ctx, leave.ApprovedFilter{OverlapFrom: from, OverlapTo: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}

	return requests, nil
}

// AnnualLeaveChart implements report.Aggregator. The whole duration of a
// request is counted in its start month, even when it runs into the next.
func (s *ReportServiceImpl) AnnualLeaveChart(ctx context.Context, req report.YearRequest) (report.LeaveChart, error) {
	if err := req.Validate(); err != nil {
		return report.LeaveChart{}, err
	}

	from, to := clock.YearWindow(req.Year)
	requests, err := s.leaveRepo.ListApproved(ctx, leave.ApprovedFilter{StartFrom: from, StartTo: to})
	if err != nil {
		return report.LeaveChart{}, fmt.Errorf("failed to list approved leave: %w", err)
	}

	chart := report.LeaveChart{Year: req.Year}
	for _, r := range requests {
		m := int(r.StartDate.Month()) - 1
		if r.HalfDay {
			chart.HalfDay[m] = numeric.Sum(chart.HalfDay[m], r.Duration)
		} else {
			chart.FullDay[m] = numeric.Sum(chart.FullDay[m], r.Duration)
		}
	}

	return chart, nil
}

// Predict implements report.Aggregator. Each month's forecast is the mean
// approved leave taken in that month over the years with any history.
func (s *ReportServiceImpl) Predict(ctx context.Context, staffID string) (report.LeavePrediction, error) {
	if validator.IsEmpty(staffID) {
		return report.LeavePrediction{}, validator.ValidationErrors{{Field: "staff_id", Message: "staff_id is required"}}
	}

	if _, err := s.directory.GetStaff(ctx, staffID); err != nil {
		return report.LeavePrediction{}, err
	}

	requests, err := s.leaveRepo.ListApproved(ctx, leave.ApprovedFilter{StaffID: staffID})
	if err != nil {
		return report.LeavePrediction{}, fmt.Errorf("failed to list approved leave: %w", err)
	}

	prediction := report.LeavePrediction{StaffID: staffID}
	if len(requests) == 0 {
		prediction.NoHistoricalData = true
		return prediction, nil
	}

	var totals [12]float64
	years := make(map[int]struct{})
	for _, r := range requests {
		m := int(r.StartDate.Month()) - 1
		totals[m] = numeric.Sum(totals[m], r.Duration)
		years[r.StartDate.Year()] = struct{}{}
	}

	prediction.YearsOfHistory = len(years)
	divisor := float64(max(len(years), 1))
	for i, total := range totals {
		prediction.MonthlyPrediction[i] = numeric.Div(total, divisor, 1)
	}

	return prediction, nil
}
