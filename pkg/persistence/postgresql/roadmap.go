package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/planline/planline/pkg/models"
	"github.com/planline/planline/pkg/persistence"
)

// RoadmapRepository handles roadmap snapshot database operations.
type RoadmapRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRoadmapRepository creates a new roadmap repository.
func NewRoadmapRepository(db *sql.DB, logger *slog.Logger) *RoadmapRepository {
	return &RoadmapRepository{db: db, logger: logger}
}

const roadmapColumns = `
	id
  , project_id
  , analysis
  , status
  , author_id
  , idea_count
  , created_at
  , updated_at
`

// GetByID returns a roadmap snapshot by its ID, or nil when absent.
func (r *RoadmapRepository) GetByID(ctx context.Context, id string) (*models.RoadmapSnapshot, error) {
	query := `SELECT ` + roadmapColumns + ` FROM roadmaps WHERE id = $1`

	snapshot, err := r.scanSnapshot(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, persistence.NewRoadmapError("GetByID", id, err)
	}

	return snapshot, nil
}

// ListByProject returns a project's snapshots ordered newest first.
func (r *RoadmapRepository) ListByProject(ctx context.Context, projectID string) ([]*models.RoadmapSnapshot, error) {
	query := `SELECT ` + roadmapColumns + ` FROM roadmaps WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, persistence.NewRoadmapProjectError("ListByProject", projectID, err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	snapshots := make([]*models.RoadmapSnapshot, 0)

	for rows.Next() {
		snapshot, err := r.scanSnapshot(rows)
		if err != nil {
			return nil, persistence.NewRoadmapProjectError("ListByProject", projectID, err)
		}

		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewRoadmapProjectError("ListByProject", projectID, err)
	}

	return snapshots, nil
}

// Save inserts a new snapshot, archiving any previously active snapshot
// for the same project in the same transaction.
func (r *RoadmapRepository) Save(ctx context.Context, snapshot *models.RoadmapSnapshot) error {
	if snapshot.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return persistence.NewRoadmapError("Save", "", err)
		}

		snapshot.ID = id.String()
	}

	if snapshot.Status == "" {
		snapshot.Status = models.RoadmapStatusActive
	}

	now := time.Now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}

	snapshot.UpdatedAt = now

	analysis, err := json.Marshal(snapshot.Analysis)
	if err != nil {
		return persistence.NewRoadmapError("Save", snapshot.ID, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence.NewRoadmapError("Save", snapshot.ID, err)
	}

	if snapshot.Status == models.RoadmapStatusActive {
		_, err = tx.ExecContext(ctx,
			`UPDATE roadmaps SET status = $1, updated_at = $2 WHERE project_id = $3 AND status = $4 AND id <> $5`,
			models.RoadmapStatusArchived, now, snapshot.ProjectID, models.RoadmapStatusActive, snapshot.ID)
		if err != nil {
			_ = tx.Rollback()

			return persistence.NewRoadmapError("Save", snapshot.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO roadmaps (id, project_id, analysis, status, author_id, idea_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, snapshot.ID, snapshot.ProjectID, analysis, snapshot.Status, snapshot.AuthorID,
		snapshot.IdeaCount, snapshot.CreatedAt, snapshot.UpdatedAt)
	if err != nil {
		_ = tx.Rollback()

		return persistence.NewRoadmapError("Save", snapshot.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return persistence.NewRoadmapError("Save", snapshot.ID, err)
	}

	return nil
}

// Update rewrites an existing snapshot's analysis. Archived snapshots
// are immutable.
func (r *RoadmapRepository) Update(ctx context.Context, snapshot *models.RoadmapSnapshot) error {
	existing, err := r.GetByID(ctx, snapshot.ID)
	if err != nil {
		return err
	}

	if existing == nil {
		return persistence.NewRoadmapError("Update", snapshot.ID, persistence.ErrRoadmapNotFound)
	}

	if existing.Status == models.RoadmapStatusArchived {
		return persistence.NewRoadmapError("Update", snapshot.ID, persistence.ErrRoadmapImmutable)
	}

	analysis, err := json.Marshal(snapshot.Analysis)
	if err != nil {
		return persistence.NewRoadmapError("Update", snapshot.ID, err)
	}

	snapshot.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE roadmaps SET analysis = $1, idea_count = $2, updated_at = $3 WHERE id = $4`,
		analysis, snapshot.IdeaCount, snapshot.UpdatedAt, snapshot.ID)
	if err != nil {
		return persistence.NewRoadmapError("Update", snapshot.ID, err)
	}

	return nil
}

// Delete removes a roadmap snapshot by its ID.
func (r *RoadmapRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM roadmaps WHERE id = $1`, id)
	if err != nil {
		return persistence.NewRoadmapError("Delete", id, err)
	}

	return nil
}

// Prune deletes archived snapshots beyond the retention count, oldest
// first, and reports how many were removed.
func (r *RoadmapRepository) Prune(ctx context.Context, projectID string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM roadmaps WHERE id IN (
			SELECT id FROM roadmaps
			WHERE project_id = $1 AND status = $2
			ORDER BY created_at DESC
			OFFSET $3
		)
	`, projectID, models.RoadmapStatusArchived, keep)
	if err != nil {
		return 0, persistence.NewRoadmapProjectError("Prune", projectID, err)
	}

	pruned, err := result.RowsAffected()
	if err != nil {
		return 0, persistence.NewRoadmapProjectError("Prune", projectID, err)
	}

	return int(pruned), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RoadmapRepository) scanSnapshot(row rowScanner) (*models.RoadmapSnapshot, error) {
	var (
		snapshot models.RoadmapSnapshot
		analysis []byte
		authorID sql.NullString
	)

	err := row.Scan(
		&snapshot.ID,
		&snapshot.ProjectID,
		&analysis,
		&snapshot.Status,
		&authorID,
		&snapshot.IdeaCount,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	snapshot.AuthorID = authorID.String

	if len(analysis) > 0 {
		if err := json.Unmarshal(analysis, &snapshot.Analysis); err != nil {
			return nil, err
		}
	}

	return &snapshot, nil
}
