package models

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrUnavailable    = errors.New("upstream unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrAmbiguousMatch = errors.New("more than one home matches")
)

// ValidationError carries per-field messages back to the caller. It unwraps
// to ErrValidation.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError converts an ozzo-validation result into a
// ValidationError. Internal rule errors are returned unchanged.
func NewValidationError(err error) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for name, fe := range fieldErrs {
			fields[name] = fe.Error()
		}
		return &ValidationError{Message: fieldErrs.Error(), Fields: fields}
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	return &ValidationError{Message: err.Error()}
}
