package leave

import "github.com/cmlabs-hris/staff-ledger/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound = apperror.New(apperror.ErrNotFound, "leave request not found")
	ErrInvalidDateRange     = apperror.New(apperror.ErrInvalidInput, "invalid leave date range")
	ErrInvalidLeaveType     = apperror.New(apperror.ErrInvalidInput, "invalid leave type")
	ErrInvalidStatus        = apperror.New(apperror.ErrInvalidInput, "decision status must be approved or rejected")
	ErrNotEditable          = apperror.New(apperror.ErrNotEditable, "only pending leave requests can be changed")
	ErrAlreadyProcessed     = apperror.New(apperror.ErrConflict, "leave request already processed")
)
