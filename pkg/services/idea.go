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

// ErrIdeaNotFound is returned when an idea is not found.
var ErrIdeaNotFound = persistence.ErrIdeaNotFound

type Idea struct {
	persistence persistence.Persistence
}

// NewIdea creates a new idea service.
func NewIdea(persistence persistence.Persistence) *Idea {
	return &Idea{
		persistence: persistence,
	}
}

// ListByProject returns a project's ideas.
func (i *Idea) ListByProject(ctx context.Context, projectID string) ([]*models.Idea, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, ErrEmptyProjectID
	}

	ideas, err := i.persistence.IdeaRepository().ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}

	return ideas, nil
}

// FetchByID retrieves an idea by its ID.
func (i *Idea) FetchByID(ctx context.Context, id string) (*models.Idea, error) {
	idea, err := i.persistence.IdeaRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if idea == nil {
		return nil, ErrIdeaNotFound
	}

	return idea, nil
}

// Create adds a new idea under a project.
func (i *Idea) Create(ctx context.Context, idea *models.Idea) (*models.Idea, error) {
	if err := i.validateIdea(ctx, idea); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	idea.ID = uuid.New().String()
	idea.CreatedAt = now
	idea.UpdatedAt = now

	err := i.persistence.IdeaRepository().Save(ctx, idea)
	if err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	return idea, nil
}

// Update modifies an existing idea by its ID.
func (i *Idea) Update(ctx context.Context, ideaID string, idea *models.Idea) (*models.Idea, error) {
	if err := i.validateIdea(ctx, idea); err != nil {
		return nil, err
	}

	existing, err := i.persistence.IdeaRepository().GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrIdeaNotFound
	}

	idea.ID = ideaID
	idea.ProjectID = existing.ProjectID
	idea.CreatedAt = existing.CreatedAt
	idea.UpdatedAt = time.Now().UTC()

	err = i.persistence.IdeaRepository().Save(ctx, idea)
	if err != nil {
		return nil, fmt.Errorf("failed to update idea: %w", err)
	}

	return idea, nil
}

// Delete removes an idea by its ID.
func (i *Idea) Delete(ctx context.Context, ideaID string) error {
	existing, err := i.persistence.IdeaRepository().GetByID(ctx, ideaID)
	if err != nil {
		return err
	}

	if existing == nil {
		return ErrIdeaNotFound
	}

	err = i.persistence.IdeaRepository().Delete(ctx, ideaID)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}

	return nil
}

func (i *Idea) validateIdea(ctx context.Context, idea *models.Idea) error {
	if idea == nil {
		return ErrInvalidRequest
	}

	idea.Title = strings.TrimSpace(idea.Title)
	if idea.Title == "" {
		return NewValidationError(
			"validateIdea",
			"IDEA_TITLE_REQUIRED",
			"idea title is required",
			ErrIdeaTitleRequired,
		)
	}

	if idea.Effort < 1 || idea.Effort > 10 || idea.Impact < 1 || idea.Impact > 10 {
		return NewValidationError(
			"validateIdea",
			"IDEA_SCORE_OUT_OF_RANGE",
			fmt.Sprintf("effort %d / impact %d outside 1-10", idea.Effort, idea.Impact),
			ErrIdeaScoreOutOfRange,
		)
	}

	project, err := i.persistence.ProjectRepository().GetByID(ctx, idea.ProjectID)
	if err != nil {
		return err
	}

	if project == nil {
		return ErrProjectNotFound
	}

	return nil
}
