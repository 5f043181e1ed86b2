package utils

import (
	"errors"
	"fmt"
)

// Common application errors used across services.
var (
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountNotFound    = errors.New("ACCOUNT_NOT_FOUND")
	ErrDuplicateUsername  = errors.New("DUPLICATE_USERNAME")
	ErrDuplicateEmail     = errors.New("DUPLICATE_EMAIL")
	ErrDuplicateAccount   = errors.New("DUPLICATE_ACCOUNT")
	ErrSelfDelete         = errors.New("SELF_DELETE")
	ErrLastActiveAdmin    = errors.New("LAST_ACTIVE_ADMIN")
	ErrNotFound           = errors.New("NOT_FOUND")
)

// ValidationError carries a field-level validation failure. These messages
// are caller-correctable and safe to return verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for the given field.
func Validationf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
