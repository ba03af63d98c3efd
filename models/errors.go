package models

import "errors"

// Workflow error taxonomy. Handlers map these to HTTP statuses:
// NotFound 404, Forbidden 403, InvalidState 409, EmptyCart / validation 400.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrEmptyCart    = errors.New("cart is empty")
)

// ValidationError carries a user-facing message for form/quantity failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(msg string) error { return &ValidationError{Message: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
