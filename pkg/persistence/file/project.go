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

// ProjectRepository handles project-related file operations.
type ProjectRepository struct {
	root string
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(root string) *ProjectRepository {
	return &ProjectRepository{root: root}
}

// GetAll returns every stored project ordered by creation time, newest first.
func (pr *ProjectRepository) GetAll(ctx context.Context) ([]*models.Project, error) {
	root := os.DirFS(path.Join(pr.root, "projects"))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}

	projects := make([]*models.Project, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		projectID := file[:len(file)-5] // Remove .json extension

		project, err := pr.GetByID(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to load project %s: %w", projectID, err)
		}

		if project != nil {
			projects = append(projects, project)
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[j].CreatedAt.Before(projects[i].CreatedAt)
	})

	return projects, nil
}

// GetByID retrieves a project by its ID from the file system.
func (pr *ProjectRepository) GetByID(_ context.Context, id string) (*models.Project, error) {
	filePath := filepath.Clean(path.Join(pr.root, "projects", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch project %s: %w", id, err)
	}

	var project models.Project

	err = json.Unmarshal(body, &project)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal project %s: %w", id, err)
	}

	return &project, nil
}

// Save writes a project to the file system, generating an ID when absent.
func (pr *ProjectRepository) Save(_ context.Context, project *models.Project) error {
	err := os.MkdirAll(path.Join(pr.root, "projects"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create projects directory: %w", err)
	}

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

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project %s: %w", project.ID, err)
	}

	return os.WriteFile(path.Join(pr.root, "projects", project.ID+".json"), data, 0600)
}

// Delete removes a project by its ID.
func (pr *ProjectRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(pr.root, "projects", id+".json"))

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}

	return nil
}
