package http

import (
	"net/http"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/report"
	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Attendance reports
	MonthlyAttendance(w http.ResponseWriter, r *http.Request)
	AnnualAttendance(w http.ResponseWriter, r *http.Request)
	TopPerformers(w http.ResponseWriter, r *http.Request)

	// Leave reports
	MonthlyLeave(w http.ResponseWriter, r *http.Request)
	LeaveChart(w http.ResponseWriter, r *http.Request)
	LeavePrediction(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	aggregator report.Aggregator
}

func NewReportHandler(aggregator report.Aggregator) ReportHandler {
	return &reportHandlerImpl{
		aggregator: aggregator,
	}
}

func parsePeriod(r *http.Request) (report.PeriodRequest, error) {
	var errs validator.ValidationErrors
	month, err := optionalInt(r.URL.Query().Get("month"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
	}
	year, err := optionalInt(r.URL.Query().Get("year"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
	}
	if len(errs) > 0 {
		return report.PeriodRequest{}, errs
	}
	return report.PeriodRequest{Month: month, Year: year}, nil
}

func parseYear(r *http.Request) (report.YearRequest, error) {
	year, err := optionalInt(r.URL.Query().Get("year"))
	if err != nil {
		return report.YearRequest{}, validator.ValidationErrors{{Field: "year", Message: "year must be a number"}}
	}
	return report.YearRequest{Year: year}, nil
}

// MonthlyAttendance handles GET /reports/attendance/monthly
func (h *reportHandlerImpl) MonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	req, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows, err := h.aggregator.MonthlyAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// AnnualAttendance handles GET /reports/attendance/annual
func (h *reportHandlerImpl) AnnualAttendance(w http.ResponseWriter, r *http.Request) {
	req, err := parseYear(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows, err := h.aggregator.AnnualAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// TopPerformers handles GET /reports/attendance/top
func (h *reportHandlerImpl) TopPerformers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		response.HandleError(w, validator.ValidationErrors{{Field: "limit", Message: "limit must be a number"}})
		return
	}

	rows, err := h.aggregator.TopPerformers(r.Context(), report.TopPerformersRequest{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Limit:     limit,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// MonthlyLeave handles GET /reports/leave/monthly
func (h *reportHandlerImpl) MonthlyLeave(w http.ResponseWriter, r *http.Request) {
	req, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.aggregator.MonthlyLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveRequestResponses(requests))
}

// LeaveChart handles GET /reports/leave/chart
func (h *reportHandlerImpl) LeaveChart(w http.ResponseWriter, r *http.Request) {
	req, err := parseYear(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	chart, err := h.aggregator.AnnualLeaveChart(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, chart)
}

// LeavePrediction handles GET /reports/leave/prediction/{staffID}
func (h *reportHandlerImpl) LeavePrediction(w http.ResponseWriter, r *http.Request) {
	prediction, err := h.aggregator.Predict(r.Context(), chi.URLParam(r, "staffID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, prediction)
}
