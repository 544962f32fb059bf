// Package postgresql provides PostgreSQL persistence implementation for projects, ideas, and roadmaps.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db          *sql.DB
	logger      *slog.Logger
	projectRepo *ProjectRepository
	ideaRepo    *IdeaRepository
	roadmapRepo *RoadmapRepository
}

// NewPersistence creates a new PostgreSQL persistence layer and runs
// pending migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:          database,
		logger:      logger,
		projectRepo: NewProjectRepository(database, logger),
		ideaRepo:    NewIdeaRepository(database, logger),
		roadmapRepo: NewRoadmapRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) ProjectRepository() persistence.ProjectRepository {
	return p.projectRepo
}

func (p *Persistence) IdeaRepository() persistence.IdeaRepository {
	return p.ideaRepo
}

func (p *Persistence) RoadmapRepository() persistence.RoadmapRepository {
	return p.roadmapRepo
}
