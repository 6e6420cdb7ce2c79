package usecase

import (
	"errors"
	"fmt"

	"whats-poppin/pkg/utils"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPaymentUnavailable = errors.New("payment processor is not configured")
)

// ValidationError carries per-field messages when the failure came from
// struct validation, or only Message for a single business rule.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func fieldErrors(fields map[string]string) error {
	return &ValidationError{
		Message: fmt.Sprintf("%s: %s", ErrValidation.Error(), utils.FormatValidationErrors(fields)),
		Fields:  fields,
	}
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fieldErrors(errs)
	}
	return nil
}
