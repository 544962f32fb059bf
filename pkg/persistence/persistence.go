// Package persistence provides the data storage abstraction layer for
// projects, ideas, and roadmap snapshots.
package persistence

import (
	"context"

	"github.com/planline/planline/pkg/models"
)

// Persistence is the storage entry point. Implementations expose typed
// repositories and manage the underlying connection lifecycle.
type Persistence interface {
	ProjectRepository() ProjectRepository
	IdeaRepository() IdeaRepository
	RoadmapRepository() RoadmapRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// ProjectRepository stores projects.
type ProjectRepository interface {
	GetAll(ctx context.Context) ([]*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Save(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
}

// IdeaRepository stores prioritization-matrix ideas per project.
type IdeaRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]*models.Idea, error)
	GetByID(ctx context.Context, id string) (*models.Idea, error)
	Save(ctx context.Context, idea *models.Idea) error
	Delete(ctx context.Context, id string) error
}

// RoadmapRepository stores roadmap snapshots with full history per
// project. ListByProject returns snapshots newest-first. Prune archives
// are removed beyond the retention count; the active snapshot is never
// pruned.
type RoadmapRepository interface {
	GetByID(ctx context.Context, id string) (*models.RoadmapSnapshot, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.RoadmapSnapshot, error)
	Save(ctx context.Context, snapshot *models.RoadmapSnapshot) error
	Update(ctx context.Context, snapshot *models.RoadmapSnapshot) error
	Delete(ctx context.Context, id string) error
	Prune(ctx context.Context, projectID string, keep int) (int, error)
}
