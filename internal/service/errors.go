package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. The API layer maps each to an
// HTTP status; anything else is treated as an internal failure.
var (
	ErrExamNotFound    = errors.New("exam not found")
	ErrAttemptNotFound = errors.New("exam attempt not found")

	// ErrEmailExists is returned by Register when the email is already registered.
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown emails, wrong passwords, inactive
	// accounts and accounts without a password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAdminRequired is returned when a non-admin calls an authoring operation.
	ErrAdminRequired = errors.New("admin privileges required")

	// ErrAttemptNotOwned is returned when a user touches another user's attempt.
	ErrAttemptNotOwned = errors.New("exam attempt belongs to another user")

	// ErrAttemptClosed is returned when completing or abandoning a finished attempt.
	ErrAttemptClosed = errors.New("exam attempt is already closed")
)

// ServiceError wraps an unexpected failure with the operation that hit it.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
