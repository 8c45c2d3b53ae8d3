package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeMalformedRecord ErrorType = "MALFORMED_RECORD"
	ErrTypeInvalidItem     ErrorType = "INVALID_ITEM"
	ErrTypeEmptyInputSet   ErrorType = "EMPTY_INPUT_SET"
	ErrTypeParsing         ErrorType = "PARSING"
	ErrTypeStorage         ErrorType = "STORAGE"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeNotFound        ErrorType = "NOT_FOUND"
	ErrTypeConfig          ErrorType = "CONFIG"
)

// Sentinels for errors.Is. Any AppError of the same type matches.
var (
	ErrMalformedRecord = &AppError{Type: ErrTypeMalformedRecord, Message: "malformed record"}
	ErrInvalidItem     = &AppError{Type: ErrTypeInvalidItem, Message: "invalid item"}
	ErrEmptyInputSet   = &AppError{Type: ErrTypeEmptyInputSet, Message: "no confirmed orders in input"}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr.Type
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Helper functions for common error types

// NewMalformedRecordError reports an input line that cannot be turned into an order.
func NewMalformedRecordError(line int, cause error) *AppError {
	return NewAppError(ErrTypeMalformedRecord, fmt.Sprintf("malformed record on line %d", line), cause).
		WithContext("line", line)
}

// NewInvalidItemError reports a line item with a negative quantity or unit price.
func NewInvalidItemError(orderID string, index int, reason string) *AppError {
	return NewAppError(ErrTypeInvalidItem, fmt.Sprintf("order %s item %d: %s", orderID, index, reason), nil).
		WithContext("order_id", orderID).
		WithContext("item_index", index)
}

// NewEmptyInputSetError reports a run in which no order survived filtering.
func NewEmptyInputSetError(loaded int) *AppError {
	return NewAppError(ErrTypeEmptyInputSet, fmt.Sprintf("no confirmed orders among %d loaded", loaded), nil).
		WithContext("loaded", loaded)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
