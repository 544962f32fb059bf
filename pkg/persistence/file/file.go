// Package file provides file-based persistence implementation for projects, ideas, and roadmaps.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/planline/planline/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root        string
	projectRepo *ProjectRepository
	ideaRepo    *IdeaRepository
	roadmapRepo *RoadmapRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:        cleanRoot,
		projectRepo: NewProjectRepository(cleanRoot),
		ideaRepo:    NewIdeaRepository(cleanRoot),
		roadmapRepo: NewRoadmapRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) ProjectRepository() persistence.ProjectRepository {
	return fp.projectRepo
}

func (fp *Persistence) IdeaRepository() persistence.IdeaRepository {
	return fp.ideaRepo
}

func (fp *Persistence) RoadmapRepository() persistence.RoadmapRepository {
	return fp.roadmapRepo
}
