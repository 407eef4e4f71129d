package core

import (
	"errors"
	"fmt"
)

// ServiceError is the application error type carried between the service
// layer and handlers. Code selects the HTTP mapping in errors.go.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error
func NewValidationError(field, reason string) *ServiceError {
	return &ServiceError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("validation failed: %s %s", field, reason),
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(err error) *ServiceError {
	return &ServiceError{
		Code:    ErrDBQuery,
		Message: "database operation failed",
		Err:     err,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string, id interface{}) *ServiceError {
	return &ServiceError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:    ErrInternalServer,
		Message: "internal server error",
		Err:     err,
	}
}

// GetServiceError extracts a ServiceError from an error chain
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}
