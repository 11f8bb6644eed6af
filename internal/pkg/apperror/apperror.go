// Package apperror defines the error categories shared by every ledger domain.
// Domain sentinels wrap exactly one category so callers can match either the
// specific error or its kind with errors.Is.
package apperror

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrNotEditable      = errors.New("not editable")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Error is a domain error tagged with its category.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New returns a sentinel error of the given kind.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// KindOf reports the category of err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvalidInput, ErrConflict, ErrNotEditable, ErrInvalidTimestamp} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
