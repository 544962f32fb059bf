package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/planline/planline/pkg/models"
	"github.com/planline/planline/pkg/persistence"
)

// RoadmapRepository handles roadmap snapshot file operations.
type RoadmapRepository struct {
	root string
}

// NewRoadmapRepository creates a new roadmap repository.
func NewRoadmapRepository(root string) *RoadmapRepository {
	return &RoadmapRepository{root: root}
}

// GetByID retrieves a roadmap snapshot by its ID from the file system.
func (rr *RoadmapRepository) GetByID(_ context.Context, id string) (*models.RoadmapSnapshot, error) {
	filePath := filepath.Clean(path.Join(rr.root, "roadmaps", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, persistence.NewRoadmapError("GetByID", id, err)
	}

	var snapshot models.RoadmapSnapshot

	err = json.Unmarshal(body, &snapshot)
	if err != nil {
		return nil, persistence.NewRoadmapError("GetByID", id, err)
	}

	return &snapshot, nil
}

// ListByProject returns a project's roadmap snapshots ordered newest first.
func (rr *RoadmapRepository) ListByProject(ctx context.Context, projectID string) ([]*models.RoadmapSnapshot, error) {
	snapshots, err := rr.loadAll(ctx)
	if err != nil {
		return nil, persistence.NewRoadmapProjectError("ListByProject", projectID, err)
	}

	matched := make([]*models.RoadmapSnapshot, 0)

	for _, snapshot := range snapshots {
		if snapshot.ProjectID == projectID {
			matched = append(matched, snapshot)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[j].CreatedAt.Before(matched[i].CreatedAt)
	})

	return matched, nil
}

// Save writes a new roadmap snapshot, generating an ID when absent and
// archiving any previously active snapshot for the same project.
func (rr *RoadmapRepository) Save(ctx context.Context, snapshot *models.RoadmapSnapshot) error {
	err := os.MkdirAll(path.Join(rr.root, "roadmaps"), 0750)
	if err != nil {
		return persistence.NewRoadmapError("Save", snapshot.ID, err)
	}

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

	if snapshot.Status == models.RoadmapStatusActive {
		if err := rr.archiveActive(ctx, snapshot.ProjectID, snapshot.ID); err != nil {
			return err
		}
	}

	return rr.write(snapshot)
}

// Update rewrites an existing snapshot in place. Archived snapshots are
// immutable.
func (rr *RoadmapRepository) Update(ctx context.Context, snapshot *models.RoadmapSnapshot) error {
	existing, err := rr.GetByID(ctx, snapshot.ID)
	if err != nil {
		return err
	}

	if existing == nil {
		return persistence.NewRoadmapError("Update", snapshot.ID, persistence.ErrRoadmapNotFound)
	}

	if existing.Status == models.RoadmapStatusArchived {
		return persistence.NewRoadmapError("Update", snapshot.ID, persistence.ErrRoadmapImmutable)
	}

	snapshot.CreatedAt = existing.CreatedAt

	return rr.write(snapshot)
}

// Delete removes a roadmap snapshot by its ID.
func (rr *RoadmapRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(rr.root, "roadmaps", id+".json"))

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return persistence.NewRoadmapError("Delete", id, err)
	}

	return nil
}

// Prune deletes archived snapshots beyond the retention count, oldest
// first, and reports how many were removed. The active snapshot never
// counts against retention.
func (rr *RoadmapRepository) Prune(ctx context.Context, projectID string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	snapshots, err := rr.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}

	archived := make([]*models.RoadmapSnapshot, 0, len(snapshots))

	for _, snapshot := range snapshots {
		if snapshot.Status == models.RoadmapStatusArchived {
			archived = append(archived, snapshot)
		}
	}

	if len(archived) <= keep {
		return 0, nil
	}

	pruned := 0

	// ListByProject is newest-first, so the tail holds the oldest snapshots.
	for _, snapshot := range archived[keep:] {
		if err := rr.Delete(ctx, snapshot.ID); err != nil {
			return pruned, err
		}

		pruned++
	}

	return pruned, nil
}

func (rr *RoadmapRepository) write(snapshot *models.RoadmapSnapshot) error {
	now := time.Now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}

	snapshot.UpdatedAt = now

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return persistence.NewRoadmapError("Save", snapshot.ID, err)
	}

	return os.WriteFile(path.Join(rr.root, "roadmaps", snapshot.ID+".json"), data, 0600)
}

func (rr *RoadmapRepository) archiveActive(ctx context.Context, projectID, exceptID string) error {
	snapshots, err := rr.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	for _, snapshot := range snapshots {
		if snapshot.ID == exceptID || snapshot.Status != models.RoadmapStatusActive {
			continue
		}

		snapshot.Status = models.RoadmapStatusArchived
		if err := rr.write(snapshot); err != nil {
			return err
		}
	}

	return nil
}

func (rr *RoadmapRepository) loadAll(ctx context.Context) ([]*models.RoadmapSnapshot, error) {
	root := os.DirFS(path.Join(rr.root, "roadmaps"))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list roadmap files: %w", err)
	}

	snapshots := make([]*models.RoadmapSnapshot, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		snapshot, err := rr.GetByID(ctx, file[:len(file)-5])
		if err != nil {
			return nil, err
		}

		if snapshot != nil {
			snapshots = append(snapshots, snapshot)
		}
	}

	return snapshots, nil
}
