package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/planline/planline/pkg/models"
)

// IdeaRepository handles idea database operations.
type IdeaRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewIdeaRepository creates a new idea repository.
func NewIdeaRepository(db *sql.DB, logger *slog.Logger) *IdeaRepository {
	return &IdeaRepository{db: db, logger: logger}
}

// ListByProject returns a project's ideas, newest first.
func (r *IdeaRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Idea, error) {
	query := `
		SELECT id, project_id, title, description, effort, impact, created_at, updated_at
		FROM ideas
		WHERE project_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ideas: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	ideas := make([]*models.Idea, 0)

	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}

		ideas = append(ideas, idea)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ideas: %w", err)
	}

	return ideas, nil
}

// GetByID returns an idea by its ID, or nil when absent.
func (r *IdeaRepository) GetByID(ctx context.Context, id string) (*models.Idea, error) {
	query := `
		SELECT id, project_id, title, description, effort, impact, created_at, updated_at
		FROM ideas
		WHERE id = $1
	`

	idea, err := scanIdea(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan idea: %w", err)
	}

	return idea, nil
}

// Save upserts an idea, generating an ID when absent.
func (r *IdeaRepository) Save(ctx context.Context, idea *models.Idea) error {
	if idea.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate idea ID: %w", err)
		}

		idea.ID = id.String()
	}

	now := time.Now().UTC()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}

	idea.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ideas (id, project_id, title, description, effort, impact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			effort = EXCLUDED.effort,
			impact = EXCLUDED.impact,
			updated_at = EXCLUDED.updated_at
	`, idea.ID, idea.ProjectID, idea.Title, idea.Description, idea.Effort, idea.Impact,
		idea.CreatedAt, idea.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save idea %s: %w", idea.ID, err)
	}

	return nil
}

// Delete removes an idea by its ID.
func (r *IdeaRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ideas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete idea %s: %w", id, err)
	}

	return nil
}

func scanIdea(row rowScanner) (*models.Idea, error) {
	var idea models.Idea

	err := row.Scan(
		&idea.ID,
		&idea.ProjectID,
		&idea.Title,
		&idea.Description,
		&idea.Effort,
		&idea.Impact,
		&idea.CreatedAt,
		&idea.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &idea, nil
}
