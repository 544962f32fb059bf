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

// ProjectRepository handles project database operations.
type ProjectRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sql.DB, logger *slog.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

// GetAll returns every project ordered by creation time, newest first.
func (r *ProjectRepository) GetAll(ctx context.Context) ([]*models.Project, error) {
	query := `
		SELECT id, name, description, type, owner, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	projects := make([]*models.Project, 0)

	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}

		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// GetByID returns a project by its ID, or nil when absent.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, description, type, owner, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	return project, nil
}

// Save upserts a project, generating an ID when absent.
func (r *ProjectRepository) Save(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate project ID: %w", err)
		}

		project.ID = id.String()
	}

	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}

	project.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, type, owner, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			owner = EXCLUDED.owner,
			updated_at = EXCLUDED.updated_at
	`, project.ID, project.Name, project.Description, project.Type, project.Owner,
		project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", project.ID, err)
	}

	return nil
}

// Delete removes a project and, via cascade, its ideas.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}

	return nil
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		project models.Project
		owner   sql.NullString
	)

	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Type,
		&owner,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	project.Owner = owner.String

	return &project, nil
}
