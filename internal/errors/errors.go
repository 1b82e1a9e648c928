package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeConstraintViolation = "CONSTRAINT_VIOLATION"
	ErrCodeStorage             = "STORAGE_ERROR"
	ErrCodeBadRequest          = "BAD_REQUEST"
)

// Sentinels for errors.Is matching. An *AppError matches the sentinel for its Code.
var (
	ErrNotFound            = stderrors.New("not found")
	ErrValidation          = stderrors.New("validation failed")
	ErrConstraintViolation = stderrors.New("constraint violation")
	ErrStorage             = stderrors.New("storage error")
)

// AppError represents an application error with an HTTP status code and error code.
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Op      string // Operation that produced the error, set by WithOp
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	prefix := e.Code
	if e.Op != "" {
		prefix = e.Op + ": " + e.Code
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching this error's code.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == ErrCodeNotFound
	case ErrValidation:
		return e.Code == ErrCodeValidation
	case ErrConstraintViolation:
		return e.Code == ErrCodeConstraintViolation
	case ErrStorage:
		return e.Code == ErrCodeStorage
	}
	return false
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewConstraintViolation creates a new CONSTRAINT_VIOLATION error
func NewConstraintViolation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConstraintViolation,
		Message: message,
		Status:  409,
	}
}

// NewStorageError wraps an I/O or driver failure.
func NewStorageError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeStorage,
		Message: message,
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// WithOp returns err annotated with the operation name. AppErrors keep their
// code and status; anything else becomes a STORAGE_ERROR.
func WithOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		wrapped := *appErr
		wrapped.Op = op
		return &wrapped
	}
	return &AppError{
		Code:    ErrCodeStorage,
		Op:      op,
		Message: "operation failed",
		Status:  500,
		Err:     err,
	}
}

// As is a convenience around errors.As for *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is forwards to the standard library so callers need only this package.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
