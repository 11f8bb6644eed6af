package staff

import "github.com/cmlabs-hris/staff-ledger/internal/pkg/apperror"

var (
	ErrStaffNotFound = apperror.New(apperror.ErrNotFound, "staff member not found")
)
