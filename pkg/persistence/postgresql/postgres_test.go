package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/planline/planline/pkg/models"
	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/persistence/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Drop tables in reverse dependency order (children first, parents last)
	for _, table := range []string{"roadmaps", "ideas", "projects", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	if os.Getenv("PLANLINE_INTEGRATION") == "" {
		t.Skip("set PLANLINE_INTEGRATION to run database integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("planline_test"),
			postgres.WithUsername("planline"),
			postgres.WithPassword("planline"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	for _, table := range []string{"projects", "ideas", "roadmaps"} {
		var exists bool

		err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = $1)`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "%s table should exist", table)
	}
}

func TestRepositoryIntegration_RoadmapLifecycle(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	project := &models.Project{Name: "Integration project", Type: "web app"}
	require.NoError(t, p.ProjectRepository().Save(ctx, project))

	idea := &models.Idea{ProjectID: project.ID, Title: "Search", Effort: 3, Impact: 7}
	require.NoError(t, p.IdeaRepository().Save(ctx, idea))

	analysis := &models.RoadmapAnalysis{
		TotalDuration: "2 months",
		Phases: []*models.Phase{
			{Phase: "Phase 1", Duration: "4 weeks", Epics: []*models.Epic{{Title: "Search epic"}}},
		},
	}

	first := &models.RoadmapSnapshot{ProjectID: project.ID, Analysis: analysis, IdeaCount: 1}
	require.NoError(t, p.RoadmapRepository().Save(ctx, first))

	fetched, err := p.RoadmapRepository().GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, models.RoadmapStatusActive, fetched.Status)
	require.Len(t, fetched.Analysis.Phases, 1)
	assert.Equal(t, "Search epic", fetched.Analysis.Phases[0].Epics[0].Title)

	// A second save archives the first.
	second := &models.RoadmapSnapshot{ProjectID: project.ID, Analysis: analysis, IdeaCount: 1}
	require.NoError(t, p.RoadmapRepository().Save(ctx, second))

	archived, err := p.RoadmapRepository().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoadmapStatusArchived, archived.Status)

	history, err := p.RoadmapRepository().ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)

	// Archived snapshots reject updates.
	err = p.RoadmapRepository().Update(ctx, archived)
	require.Error(t, err)
	assert.True(t, persistence.IsRoadmapImmutable(err))

	// Active snapshots accept updates.
	second.Analysis.TotalDuration = "3 months"
	require.NoError(t, p.RoadmapRepository().Update(ctx, second))

	updated, err := p.RoadmapRepository().GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "3 months", updated.Analysis.TotalDuration)

	// Pruning with keep=0 removes all archived snapshots.
	pruned, err := p.RoadmapRepository().Prune(ctx, project.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
}
