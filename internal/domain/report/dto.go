package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
)

// DefaultTopPerformersLimit applies when the caller passes no limit.
const DefaultTopPerformersLimit = 10

// ========================================
// ATTENDANCE REPORTS
// ========================================

type PeriodRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 1970 and 9999, got %d", r.Year),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type YearRequest struct {
	Year int `json:"year"`
}

func (r *YearRequest) Validate() error {
	if !validator.IsValidYear(r.Year) {
		return validator.ValidationErrors{{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 1970 and 9999, got %d", r.Year),
		}}
	}
	return nil
}

type AttendanceRow struct {
	StaffID           string  `json:"staff_id"`
	TotalDays         int     `json:"total_days"`
	PresentDays       int     `json:"present_days"`
	HalfDays          int     `json:"half_days"`
	AbsentDays        int     `json:"absent_days"`
	LateDays          int     `json:"late_days"`
	TotalWorkingHours float64 `json:"total_working_hours"`
}

type AnnualAttendanceRow struct {
	AttendanceRow
	// MonthlyHours is indexed by month, January = 0.
	MonthlyHours [12]float64 `json:"monthly_hours"`
}

type TopPerformersRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Limit     int    `json:"limit"`
}

func (r *TopPerformersRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if r.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not be negative",
		})
	}
	if r.Limit == 0 {
		r.Limit = DefaultTopPerformersLimit
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Window returns the parsed bounds. Call after Validate.
func (r TopPerformersRequest) Window() (time.Time, time.Time) {
	start, _ := time.Parse(validator.DateLayout, r.StartDate)
	end, _ := time.Parse(validator.DateLayout, r.EndDate)
	return start, end
}

type PerformerRow struct {
	StaffID              string  `json:"staff_id"`
	TotalDays            int     `json:"total_days"`
	PresentDays          int     `json:"present_days"`
	TotalWorkingHours    float64 `json:"total_working_hours"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// ========================================
// LEAVE REPORTS
// ========================================

type LeaveChart struct {
	Year int `json:"year"`
	// Whole duration of each approved request lands in its start month.
	FullDay [12]float64 `json:"full_day"`
	HalfDay [12]float64 `json:"half_day"`
}

type LeavePrediction struct {
	StaffID           string      `json:"staff_id"`
	MonthlyPrediction [12]float64 `json:"monthly_prediction"`
	YearsOfHistory    int         `json:"years_of_history"`
	NoHistoricalData  bool        `json:"no_historical_data"`
}
