package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	ListForStaff(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	ledger leave.Ledger
}

func NewLeaveHandler(ledger leave.Ledger) LeaveHandler {
	return &leaveHandlerImpl{ledger: ledger}
}

// Apply implements LeaveHandler.
func (h *leaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var req leave.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Apply decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if req.StaffID == "" {
		req.StaffID = middleware.StaffID(r)
	}
	if !canActFor(r, req.StaffID) {
		response.Forbidden(w, "Cannot apply for leave on behalf of another staff member")
		return
	}

	request, err := h.ledger.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leave.NewLeaveRequestResponse(request))
}

// Update implements LeaveHandler.
func (h *leaveHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	req.ID = chi.URLParam(r, "id")
	if !h.ownsRequest(w, r, req.ID, "Cannot edit another staff member's leave request") {
		return
	}

	request, err := h.ledger.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", leave.NewLeaveRequestResponse(request))
}

// Withdraw implements LeaveHandler.
func (h *leaveHandlerImpl) Withdraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.ownsRequest(w, r, id, "Cannot withdraw another staff member's leave request") {
		return
	}

	if err := h.ledger.Withdraw(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request withdrawn successfully", nil)
}

// ownsRequest writes the error response and returns false unless the caller
// is the request's staff member or an admin.
func (h *leaveHandlerImpl) ownsRequest(w http.ResponseWriter, r *http.Request, id, forbidden string) bool {
	current, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return false
	}
	if !canActFor(r, current.StaffID) {
		response.Forbidden(w, forbidden)
		return false
	}
	return true
}

// Decide implements LeaveHandler.
func (h *leaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req leave.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Decide decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	req.ID = chi.URLParam(r, "id")
	if req.ApprovedBy == "" {
		req.ApprovedBy = middleware.StaffID(r)
	}

	request, err := h.ledger.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+string(request.Status), leave.NewLeaveRequestResponse(request))
}

// ListPending implements LeaveHandler.
func (h *leaveHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.ledger.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveRequestResponses(requests))
}

// ListForStaff implements LeaveHandler.
func (h *leaveHandlerImpl) ListForStaff(w http.ResponseWriter, r *http.Request) {
	requests, err := h.ledger.ListForStaff(r.Context(), chi.URLParam(r, "staffID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveRequestResponses(requests))
}

// Balance implements LeaveHandler.
func (h *leaveHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.HandleError(w, validator.ValidationErrors{{Field: "year", Message: "year is required and must be a number"}})
		return
	}

	balance, err := h.ledger.Balance(r.Context(), chi.URLParam(r, "staffID"), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}
