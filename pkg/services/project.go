package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planline/planline/pkg/models"
	"github.com/planline/planline/pkg/persistence"
)

// ErrProjectNotFound is returned when a project is not found.
var ErrProjectNotFound = persistence.ErrProjectNotFound

type Project struct {
	persistence persistence.Persistence
}

// NewProject creates a new project service.
func NewProject(persistence persistence.Persistence) *Project {
	return &Project{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (p *Project) HealthCheck(ctx context.Context) (string, bool) {
	if p.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := p.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns every stored project.
func (p *Project) List(ctx context.Context) ([]*models.Project, error) {
	projects, err := p.persistence.ProjectRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// FetchByID retrieves a project by its ID.
func (p *Project) FetchByID(ctx context.Context, id string) (*models.Project, error) {
	project, err := p.persistence.ProjectRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if project == nil {
		return nil, ErrProjectNotFound
	}

	return project, nil
}

// Create adds a new project to the repository.
func (p *Project) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := validateProject(project); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project.ID = uuid.New().String()
	project.CreatedAt = now
	project.UpdatedAt = now

	err := p.persistence.ProjectRepository().Save(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// Update modifies an existing project by its ID.
func (p *Project) Update(ctx context.Context, projectID string, project *models.Project) (*models.Project, error) {
	if err := validateProject(project); err != nil {
		return nil, err
	}

	existing, err := p.persistence.ProjectRepository().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrProjectNotFound
	}

	project.ID = projectID
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = time.Now().UTC()

	err = p.persistence.ProjectRepository().Save(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete removes a project by its ID.
func (p *Project) Delete(ctx context.Context, projectID string) error {
	existing, err := p.persistence.ProjectRepository().GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	if existing == nil {
		return ErrProjectNotFound
	}

	err = p.persistence.ProjectRepository().Delete(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

func validateProject(project *models.Project) error {
	if project == nil {
		return ErrInvalidRequest
	}

	project.Name = strings.TrimSpace(project.Name)

	if len(project.Name) < 3 {
		return NewValidationError(
			"validateProject",
			"PROJECT_NAME_SHORT",
			fmt.Sprintf("project name %q is shorter than 3 characters", project.Name),
			ErrProjectNameShort,
		)
	}

	return nil
}
