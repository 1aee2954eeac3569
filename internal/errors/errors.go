// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrQuoteNotFound  = errors.New("quote not found")
	ErrNoConvergence  = errors.New("implied volatility did not converge")
	ErrBelowIntrinsic = errors.New("price at or below intrinsic value")
	ErrExpiredQuote   = errors.New("quote has no remaining time value")
	ErrBadContract    = errors.New("malformed contract code")
	ErrNoData         = errors.New("no data in range")
	ErrDatabaseError  = errors.New("database error")
)

// ValidationError represents a configuration or parameter validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// DataError represents an error in loaded market data.
type DataError struct {
	DataType string
	Detail   string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s]: %s: %v", e.DataType, e.Detail, e.Err)
	}
	return fmt.Sprintf("data error [%s]: %s", e.DataType, e.Detail)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, detail string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Detail:   detail,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
