// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"

	"github.com/planline/planline/pkg/persistence"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest      = errors.New("invalid request")
	ErrProjectNameShort    = errors.New("project name must be at least 3 characters")
	ErrIdeaTitleRequired   = errors.New("idea title is required")
	ErrIdeaScoreOutOfRange = errors.New("effort and impact must be between 1 and 10")
	ErrEmptyProjectID      = errors.New("project ID cannot be empty")

	// Business Logic Conflicts (409 Conflict).
	ErrRoadmapExists     = errors.New("project already has an active roadmap")
	ErrArchivedImmutable = errors.New("archived roadmap snapshots cannot be modified")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrProjectNameShort) ||
		errors.Is(err, ErrIdeaTitleRequired) ||
		errors.Is(err, ErrIdeaScoreOutOfRange) ||
		errors.Is(err, ErrEmptyProjectID)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrRoadmapExists) ||
		errors.Is(err, ErrArchivedImmutable) ||
		errors.Is(err, persistence.ErrRoadmapImmutable)
}

// IsNotFoundError checks if an error indicates a missing resource (HTTP 404).
func IsNotFoundError(err error) bool {
	return errors.Is(err, persistence.ErrProjectNotFound) ||
		errors.Is(err, persistence.ErrIdeaNotFound) ||
		errors.Is(err, persistence.ErrRoadmapNotFound)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
