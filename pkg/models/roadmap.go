// Package models defines the core domain models for roadmap planning.
package models

import "time"

// Priority is the free-text priority of an epic. Conventionally one of
// high/medium/low, but unrecognized values are carried through rather
// than rejected.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// EpicStatus represents the scheduling state of an epic on the timeline.
type EpicStatus string

const (
	EpicStatusPlanned    EpicStatus = "planned"
	EpicStatusInProgress EpicStatus = "in-progress"
	EpicStatusCompleted  EpicStatus = "completed"
)

// Team is the delivery team an epic is assigned to.
type Team string

const (
	TeamWeb      Team = "web"
	TeamMobile   Team = "mobile"
	TeamBackend  Team = "backend"
	TeamTesting  Team = "testing"
	TeamPlatform Team = "platform"
)

// RoadmapAnalysis is the top-level generated roadmap artifact. It is the
// single owner of its phases and epics; flattened timeline views are
// always derived from it and reconciled back into it.
type RoadmapAnalysis struct {
	TotalDuration string   `json:"total_duration"`
	Phases        []*Phase `json:"phases"` // Order defines execution sequence
}

// Phase is an ordered stage of roadmap execution.
type Phase struct {
	Phase           string   `json:"phase"    validate:"required"`
	Duration        string   `json:"duration"` // Free text, e.g. "4 weeks"
	Description     string   `json:"description"`
	Risks           []string `json:"risks,omitempty"`
	SuccessCriteria []string `json:"success_criteria,omitempty"`
	Epics           []*Epic  `json:"epics"`
}

// Epic is a unit of planned work within a phase. Scheduling fields are
// optional on the source epic; the timeline builder resolves them to
// concrete values.
type Epic struct {
	Title             string     `json:"title"       validate:"required"`
	Description       string     `json:"description"`
	UserStories       []string   `json:"user_stories,omitempty"`
	Deliverables      []string   `json:"deliverables,omitempty"`
	RelatedIdeas      []string   `json:"related_ideas,omitempty"`
	Priority          Priority   `json:"priority,omitempty"`
	Complexity        string     `json:"complexity,omitempty"`
	StartMonth        *int       `json:"start_month,omitempty"`
	Duration          *int       `json:"duration,omitempty"` // Months
	Team              Team       `json:"team,omitempty"`
	Status            EpicStatus `json:"status,omitempty"`
	OriginalFeatureID string     `json:"original_feature_id,omitempty"`
}

// RoadmapStatus represents the lifecycle state of a stored roadmap.
type RoadmapStatus string

const (
	RoadmapStatusActive   RoadmapStatus = "active"   // Current roadmap for the project
	RoadmapStatusArchived RoadmapStatus = "archived" // Historical snapshot
)

// RoadmapSnapshot is a persisted roadmap version. Snapshots are immutable
// once archived; only the active roadmap receives edits.
type RoadmapSnapshot struct {
	ID        string           `json:"id"`
	ProjectID string           `json:"project_id" validate:"required"`
	Analysis  *RoadmapAnalysis `json:"analysis"   validate:"required"`
	Status    RoadmapStatus    `json:"status"`
	AuthorID  string           `json:"author_id"`
	IdeaCount int              `json:"idea_count"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// EpicCount returns the total number of epics across all phases.
func (a *RoadmapAnalysis) EpicCount() int {
	count := 0
	for _, phase := range a.Phases {
		count += len(phase.Epics)
	}

	return count
}
