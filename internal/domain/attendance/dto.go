package attendance

import (
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/pkg/numeric"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	StaffID string `json:"staff_id"`
	RFIDTag string `json:"rfid_tag"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	}

	if validator.IsEmpty(r.RFIDTag) {
		errs = append(errs, validator.ValidationError{
			Field:   "rfid_tag",
			Message: "rfid_tag is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	StaffID string `json:"staff_id"`
	RFIDTag string `json:"rfid_tag"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// QueryFilter selects a staff member's records either by calendar month/year
// or by an explicit date range. Both forms are optional; an empty filter
// matches every record of the staff member.
type QueryFilter struct {
	StaffID   string `json:"staff_id"`
	Month     int    `json:"month,omitempty"`
	Year      int    `json:"year,omitempty"`
	StartDate string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Chronological switches the default newest-first ordering.
	Chronological bool `json:"chronological,omitempty"`
}

func (f *QueryFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	}

	byPeriod := f.Month != 0 || f.Year != 0
	byRange := f.StartDate != "" || f.EndDate != ""
	if byPeriod && byRange {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "use either month/year or start_date/end_date, not both",
		})
	}

	if f.Month != 0 {
		if !validator.IsValidMonth(f.Month) {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be between 1 and 12",
			})
		}
		if f.Year == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "year",
				Message: "year is required when month is set",
			})
		}
	}

	if f.Year != 0 && !validator.IsValidYear(f.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != "" {
		if start, startOK = validator.IsValidDate(f.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != "" {
		if end, endOK = validator.IsValidDate(f.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Range resolves the filter to civil-day bounds. Call after Validate.
func (f QueryFilter) Range() DateRange {
	switch {
	case f.Month != 0:
		from := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{From: from, To: from.AddDate(0, 1, -1)}
	case f.Year != 0:
		return DateRange{
			From: time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(f.Year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	}

	var r DateRange
	if f.StartDate != "" {
		r.From, _ = time.Parse(validator.DateLayout, f.StartDate)
	}
	if f.EndDate != "" {
		r.To, _ = time.Parse(validator.DateLayout, f.EndDate)
	}
	return r
}

type RecordResponse struct {
	ID           string  `json:"id"`
	StaffID      string  `json:"staff_id"`
	Date         string  `json:"date"`
	CheckIn      string  `json:"check_in"`
	CheckOut     *string `json:"check_out,omitempty"`
	WorkingHours float64 `json:"working_hours"`
	Status       Status  `json:"status"`
	RFIDTag      string  `json:"rfid_tag"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:           r.ID,
		StaffID:      r.StaffID,
		Date:         r.Date.Format(validator.DateLayout),
		CheckIn:      r.CheckIn.Format(time.RFC3339),
		WorkingHours: numeric.Round(r.WorkingHours, 2),
		Status:       r.Status,
		RFIDTag:      r.RFIDTag,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CheckOut != nil {
		out := r.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &out
	}
	return resp
}

func NewRecordResponses(records []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewRecordResponse(r))
	}
	return out
}
