package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/staff-ledger/internal/pkg/apperror"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/validator"
)

type errorStatus struct {
	status int
	code   string
}

var kindStatus = map[error]errorStatus{
	apperror.ErrNotFound:         {http.StatusNotFound, "NOT_FOUND"},
	apperror.ErrInvalidInput:     {http.StatusUnprocessableEntity, "INVALID_INPUT"},
	apperror.ErrConflict:         {http.StatusConflict, "CONFLICT"},
	apperror.ErrNotEditable:      {http.StatusConflict, "NOT_EDITABLE"},
	apperror.ErrInvalidTimestamp: {http.StatusUnprocessableEntity, "INVALID_TIMESTAMP"},
}

// HandleError maps domain errors to HTTP responses by their apperror kind.
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", validationErrs.ToMap())
		return
	}

	if s, ok := kindStatus[apperror.KindOf(err)]; ok {
		writeError(w, s.status, s.code, err.Error(), nil)
		return
	}

	slog.Error("Unhandled error", "error", err)
	InternalServerError(w, "An unexpected error occurred")
}
