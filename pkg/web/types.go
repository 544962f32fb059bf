// Package web provides HTTP request and response types for the roadmap API.
package web

import "github.com/planline/planline/pkg/models"

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateProjectRequest represents the request body for creating a new project.
type CreateProjectRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Owner       string `json:"owner"       validate:"required"`
}

// UpdateProjectRequest represents the request body for updating an existing project.
// All fields are optional to support partial updates.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=3"`
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty"`
}

// CreateIdeaRequest represents the request body for capturing a new idea.
type CreateIdeaRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	Effort      int    `json:"effort"      validate:"required,min=1,max=10"`
	Impact      int    `json:"impact"      validate:"required,min=1,max=10"`
}

// GenerateRoadmapRequest represents the request body for roadmap generation.
// Force confirms replacing an existing roadmap.
type GenerateRoadmapRequest struct {
	Force bool `json:"force"`
}

// EditTimelineRequest represents the request body for persisting timeline edits.
type EditTimelineRequest struct {
	Features []models.TimelineFeature `json:"features" validate:"required,min=1,dive"`
}

// TimelineResponse wraps the flat feature projection of the active roadmap.
type TimelineResponse struct {
	ProjectID string                   `json:"project_id"`
	Features  []models.TimelineFeature `json:"features"`
}
