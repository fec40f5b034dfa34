package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates a concurrent write lost a race (duplicate serial, lock timeout, serialization failure).
var ErrConflict = errors.New("conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = fmt.Errorf("%w: resource already exists", ErrConflict)

// ErrBusinessRule indicates a well-formed request that the current state does not allow.
var ErrBusinessRule = errors.New("business rule violation")

// ErrInternal indicates a store or connectivity failure.
var ErrInternal = errors.New("internal error")

// Stable error codes surfaced to API callers.
const (
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	CodeInvalidItemsFormat   = "INVALID_ITEMS_FORMAT"
	CodeValidation           = "VALIDATION"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeBusinessRule         = "BUSINESS_RULE"
	CodeInternal             = "INTERNAL"
)

// CodedError attaches a stable code to one of the sentinel kinds above.
type CodedError struct {
	Kind    error
	Code    string
	Message string
}

func (e *CodedError) Error() string {
	return e.Message
}

func (e *CodedError) Unwrap() error {
	return e.Kind
}

// NewCodedError creates a CodedError with a formatted message.
func NewCodedError(kind error, code, format string, args ...any) *CodedError {
	return &CodedError{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// MissingField reports a required field that was not supplied.
func MissingField(field string) error {
	return NewCodedError(ErrValidation, CodeMissingRequiredField, "%s is required", field)
}

// InvalidItems reports a malformed items list.
func InvalidItems(format string, args ...any) error {
	return NewCodedError(ErrValidation, CodeInvalidItemsFormat, format, args...)
}

// Invalid reports a generic validation failure.
func Invalid(format string, args ...any) error {
	return NewCodedError(ErrValidation, CodeValidation, format, args...)
}

// NotFound reports an unresolved id.
func NotFound(format string, args ...any) error {
	return NewCodedError(ErrNotFound, CodeNotFound, format, args...)
}

// InsufficientStock reports a manual decrease that would take stock below zero.
func InsufficientStock(productID int64, available, requested int) error {
	return NewCodedError(ErrBusinessRule, CodeInsufficientStock,
		"insufficient stock for product %d: available %d, requested decrease %d", productID, available, requested)
}

// CodeOf returns the stable code carried by err, deriving one from its kind when none is attached.
func CodeOf(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrBusinessRule):
		return CodeBusinessRule
	default:
		return CodeInternal
	}
}

// AppError wraps a lower-level failure with an HTTP-ish status code and a safe message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets a 500 AppError match ErrInternal without the caller wrapping it twice.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
