package models

import "time"

// Project groups ideas and roadmaps under a single product effort.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"        validate:"required,min=3"`
	Description string    `json:"description"`
	Type        string    `json:"type"` // Free text: "web app", "mobile app", "backend service", ...
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Idea is a candidate feature captured for a project, positioned on the
// effort/impact prioritization matrix.
type Idea struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id" validate:"required"`
	Title       string    `json:"title"      validate:"required"`
	Description string    `json:"description"`
	Effort      int       `json:"effort"` // 1-10
	Impact      int       `json:"impact"` // 1-10
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
