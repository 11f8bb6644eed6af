package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	clockEngine attendance.ClockEngine
}

func NewAttendanceHandler(clockEngine attendance.ClockEngine) AttendanceHandler {
	return &attendanceHandlerImpl{clockEngine: clockEngine}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if req.StaffID == "" {
		req.StaffID = middleware.StaffID(r)
	}
	if !canActFor(r, req.StaffID) {
		response.Forbidden(w, "Cannot check in for another staff member")
		return
	}

	record, err := h.clockEngine.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", attendance.NewRecordResponse(record))
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if req.StaffID == "" {
		req.StaffID = middleware.StaffID(r)
	}
	if !canActFor(r, req.StaffID) {
		response.Forbidden(w, "Cannot check out for another staff member")
		return
	}

	record, err := h.clockEngine.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", attendance.NewRecordResponse(record))
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseQueryFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.clockEngine.QueryAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewRecordResponses(records))
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseQueryFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.clockEngine.Summarize(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// canActFor reports whether the caller may write records for staffID.
func canActFor(r *http.Request, staffID string) bool {
	return middleware.IsAdmin(r) || staffID == middleware.StaffID(r)
}

func parseQueryFilter(r *http.Request) (attendance.QueryFilter, error) {
	q := r.URL.Query()
	filter := attendance.QueryFilter{
		StaffID:       chi.URLParam(r, "staffID"),
		StartDate:     q.Get("start_date"),
		EndDate:       q.Get("end_date"),
		Chronological: q.Get("order") == "asc",
	}

	var errs validator.ValidationErrors
	var err error
	if filter.Month, err = optionalInt(q.Get("month")); err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
	}
	if filter.Year, err = optionalInt(q.Get("year")); err != nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
	}
	if len(errs) > 0 {
		return attendance.QueryFilter{}, errs
	}
	return filter, nil
}

// optionalInt parses an optional query parameter; empty yields 0.
func optionalInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
