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
)

// IdeaRepository handles idea-related file operations.
type IdeaRepository struct {
	root string
}

// NewIdeaRepository creates a new idea repository.
func NewIdeaRepository(root string) *IdeaRepository {
	return &IdeaRepository{root: root}
}

// ListByProject returns the ideas belonging to a project, newest first.
func (ir *IdeaRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Idea, error) {
	root := os.DirFS(path.Join(ir.root, "ideas"))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list idea files: %w", err)
	}

	ideas := make([]*models.Idea, 0)

	for _, file := range jsonFiles {
		ideaID := file[:len(file)-5]

		idea, err := ir.GetByID(ctx, ideaID)
		if err != nil {
			return nil, fmt.Errorf("failed to load idea %s: %w", ideaID, err)
		}

		if idea != nil && idea.ProjectID == projectID {
			ideas = append(ideas, idea)
		}
	}

	sort.Slice(ideas, func(i, j int) bool {
		return ideas[j].CreatedAt.Before(ideas[i].CreatedAt)
	})

	return ideas, nil
}

// GetByID retrieves an idea by its ID from the file system.
func (ir *IdeaRepository) GetByID(_ context.Context, id string) (*models.Idea, error) {
	filePath := filepath.Clean(path.Join(ir.root, "ideas", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch idea %s: %w", id, err)
	}

	var idea models.Idea

	err = json.Unmarshal(body, &idea)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal idea %s: %w", id, err)
	}

	return &idea, nil
}

// Save writes an idea to the file system, generating an ID when absent.
func (ir *IdeaRepository) Save(_ context.Context, idea *models.Idea) error {
	err := os.MkdirAll(path.Join(ir.root, "ideas"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create ideas directory: %w", err)
	}

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

	data, err := json.MarshalIndent(idea, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal idea %s: %w", idea.ID, err)
	}

	return os.WriteFile(path.Join(ir.root, "ideas", idea.ID+".json"), data, 0600)
}

// Delete removes an idea by its ID.
func (ir *IdeaRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(ir.root, "ideas", id+".json"))

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete idea %s: %w", id, err)
	}

	return nil
}
