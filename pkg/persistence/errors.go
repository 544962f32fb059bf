// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrProjectNotFound indicates a project was not found by the given identifier.
	ErrProjectNotFound = errors.New("project not found")

	// ErrIdeaNotFound indicates an idea was not found by the given identifier.
	ErrIdeaNotFound = errors.New("idea not found")

	// ErrRoadmapNotFound indicates a roadmap snapshot was not found by the given identifier.
	ErrRoadmapNotFound = errors.New("roadmap not found")

	// ErrRoadmapImmutable indicates an attempt to update an archived snapshot.
	ErrRoadmapImmutable = errors.New("archived roadmap snapshots are immutable")
)

// RoadmapError wraps roadmap-related errors with additional context.
type RoadmapError struct {
	Op        string // Operation being performed (e.g., "GetByID", "Save", "Prune")
	RoadmapID string // Roadmap snapshot ID if applicable
	ProjectID string // Project ID if applicable
	Err       error  // Underlying error
}

func (e *RoadmapError) Error() string {
	target := e.RoadmapID
	if target == "" {
		target = "project " + e.ProjectID
	}

	return fmt.Sprintf("%s operation failed for roadmap %s: %v", e.Op, target, e.Err)
}

func (e *RoadmapError) Unwrap() error {
	return e.Err
}

func (e *RoadmapError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRoadmapError creates a new roadmap error with context.
func NewRoadmapError(op, roadmapID string, err error) *RoadmapError {
	return &RoadmapError{
		Op:        op,
		RoadmapID: roadmapID,
		Err:       err,
	}
}

// NewRoadmapProjectError creates a new roadmap error for project-scoped operations.
func NewRoadmapProjectError(op, projectID string, err error) *RoadmapError {
	return &RoadmapError{
		Op:        op,
		ProjectID: projectID,
		Err:       err,
	}
}

// IsProjectNotFound checks if an error indicates a project was not found.
func IsProjectNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound)
}

// IsIdeaNotFound checks if an error indicates an idea was not found.
func IsIdeaNotFound(err error) bool {
	return errors.Is(err, ErrIdeaNotFound)
}

// IsRoadmapNotFound checks if an error indicates a roadmap snapshot was not found.
func IsRoadmapNotFound(err error) bool {
	return errors.Is(err, ErrRoadmapNotFound)
}

// IsRoadmapImmutable checks if an error indicates an archived snapshot was modified.
func IsRoadmapImmutable(err error) bool {
	return errors.Is(err, ErrRoadmapImmutable)
}
