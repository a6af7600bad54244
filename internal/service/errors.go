package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/andy/billbook/internal/domain"
)

// ValidationError reports user input that was rejected before anything was
// persisted. Message is suitable for showing to the user as is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// fieldErrors maps input struct fields to the domain error shown for them
var fieldErrors = map[string]error{
	"ClientName": domain.ErrClientNameRequired,
	"Items":      domain.ErrNoItems,
	"PaidAmount": domain.ErrInvalidAmount,
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error(), Err: err}
}

// fromValidator turns the first failing field of a validator run into a
// ValidationError
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	field := verrs[0].Field()
	if known, ok := fieldErrors[field]; ok {
		return newValidationError(field, known)
	}
	return &ValidationError{Field: field, Message: verrs[0].Error(), Err: err}
}

// fromDomain wraps a domain validation failure
func fromDomain(err error) error {
	for field, known := range fieldErrors {
		if errors.Is(err, known) {
			return newValidationError(field, known)
		}
	}
	return err
}
