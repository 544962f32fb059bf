package roadmap

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/planline/planline/pkg/generation"
	"github.com/planline/planline/pkg/models"
	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type stubGenerator struct {
	calls  atomic.Int32
	result *models.RoadmapAnalysis
	err    error
	delay  time.Duration
}

func (s *stubGenerator) Generate(ctx context.Context, _ []*models.Idea, _, _ string) (*models.RoadmapAnalysis, error) {
	s.calls.Add(1)

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	return s.result, s.err
}

// countingRoadmapRepo wraps a repository to count persistence writes.
type countingRoadmapRepo struct {
	persistence.RoadmapRepository

	saves   atomic.Int32
	updates atomic.Int32
}

func (c *countingRoadmapRepo) Save(ctx context.Context, snapshot *models.RoadmapSnapshot) error {
	c.saves.Add(1)

	return c.RoadmapRepository.Save(ctx, snapshot)
}

func (c *countingRoadmapRepo) Update(ctx context.Context, snapshot *models.RoadmapSnapshot) error {
	c.updates.Add(1)

	return c.RoadmapRepository.Update(ctx, snapshot)
}

func generatedAnalysis() *models.RoadmapAnalysis {
	return &models.RoadmapAnalysis{
		TotalDuration: "2 months",
		Phases: []*models.Phase{
			{Phase: "Build", Duration: "4 weeks", Epics: []*models.Epic{
				{Title: "Search api", Description: "backend search"},
				{Title: "Search ui", Description: "frontend"},
			}},
			{Phase: "Harden", Duration: "1 month", Epics: []*models.Epic{
				{Title: "QA pass", Description: "test automation"},
			}},
		},
	}
}

type testEnv struct {
	controller *Controller
	repo       *countingRoadmapRepo
	project    *models.Project
	generator  *stubGenerator
}

func setupController(t *testing.T, generator *stubGenerator, opts ...Option) *testEnv {
	t.Helper()

	fp := file.NewPersistence(t.TempDir())
	repo := &countingRoadmapRepo{RoadmapRepository: fp.RoadmapRepository()}

	project := &models.Project{Name: "Demo project", Type: "web app", Owner: "owner-1"}
	require.NoError(t, fp.ProjectRepository().Save(t.Context(), project))

	idea := &models.Idea{ProjectID: project.ID, Title: "Search", Effort: 3, Impact: 8}
	require.NoError(t, fp.IdeaRepository().Save(t.Context(), idea))

	opts = append([]Option{WithPersistDelay(20 * time.Millisecond)}, opts...)
	controller := NewController(generator, repo, fp.IdeaRepository(), testLogger(), opts...)
	t.Cleanup(controller.Close)

	require.NoError(t, controller.SelectProject(t.Context(), project))

	return &testEnv{controller: controller, repo: repo, project: project, generator: generator}
}

func TestControllerInitialState(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()})

	state, err := env.controller.State()
	assert.Equal(t, StateEmpty, state)
	assert.NoError(t, err)
	assert.Nil(t, env.controller.Active())
	assert.Nil(t, env.controller.Timeline())
}

func TestControllerGenerate(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()})

	snapshot, err := env.controller.Generate(t.Context(), false)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, 1, snapshot.IdeaCount)

	state, stateErr := env.controller.State()
	assert.Equal(t, StateLoaded, state)
	assert.NoError(t, stateErr)

	// Persisted as the active snapshot.
	stored, err := env.repo.GetByID(t.Context(), snapshot.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.RoadmapStatusActive, stored.Status)

	features := env.controller.Timeline()
	assert.Len(t, features, 3)
}

func TestControllerGenerateWithoutProject(t *testing.T) {
	controller := NewController(&stubGenerator{}, nil, nil, testLogger())

	_, err := controller.Generate(t.Context(), false)
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestControllerGenerateNoIdeas(t *testing.T) {
	fp := file.NewPersistence(t.TempDir())
	project := &models.Project{Name: "Empty project", Type: "web app"}
	require.NoError(t, fp.ProjectRepository().Save(t.Context(), project))

	controller := NewController(&stubGenerator{}, fp.RoadmapRepository(), fp.IdeaRepository(), testLogger())
	require.NoError(t, controller.SelectProject(t.Context(), project))

	_, err := controller.Generate(t.Context(), false)
	assert.ErrorIs(t, err, ErrNoIdeas)

	state, _ := controller.State()
	assert.Equal(t, StateFailed, state)
}

func TestControllerGenerateConfirmationGate(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()})

	first, err := env.controller.Generate(t.Context(), false)
	require.NoError(t, err)

	_, err = env.controller.Generate(t.Context(), false)
	assert.ErrorIs(t, err, ErrRoadmapExists)

	second, err := env.controller.Generate(t.Context(), true)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestControllerGenerateFailureKeepsPrevious(t *testing.T) {
	generator := &stubGenerator{result: generatedAnalysis()}
	env := setupController(t, generator)

	snapshot, err := env.controller.Generate(t.Context(), false)
	require.NoError(t, err)

	generator.result = nil
	generator.err = generation.ErrGenerationFailed

	_, err = env.controller.Generate(t.Context(), true)
	require.Error(t, err)

	// The previous roadmap survives a failed regeneration.
	state, stateErr := env.controller.State()
	assert.Equal(t, StateLoaded, state)
	assert.Error(t, stateErr)
	require.NotNil(t, env.controller.Active())
	assert.Equal(t, snapshot.ID, env.controller.Active().ID)
}

func TestControllerGenerateTimeout(t *testing.T) {
	generator := &stubGenerator{result: generatedAnalysis(), delay: time.Second}
	env := setupController(t, generator, WithGenerationTimeout(10*time.Millisecond))

	_, err := env.controller.Generate(t.Context(), false)
	assert.ErrorIs(t, err, ErrGenerationTimeout)

	state, _ := env.controller.State()
	assert.Equal(t, StateFailed, state)
}

func TestControllerEditFeaturesDebounced(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()})

	_, err := env.controller.Generate(t.Context(), false)
	require.NoError(t, err)

	features := env.controller.Timeline()
	require.Len(t, features, 3)

	// Two rapid edits collapse into one persistence write.
	features[0].StartMonth = 5
	require.NoError(t, env.controller.EditFeatures(t.Context(), features))

	features[0].StartMonth = 6
	require.NoError(t, env.controller.EditFeatures(t.Context(), features))

	// In-memory state reflects the edit immediately.
	rebuilt := env.controller.Timeline()
	assert.Equal(t, 6, rebuilt[0].StartMonth)

	require.Eventually(t, func() bool {
		return env.repo.updates.Load() == 1
	}, time.Second, 5*time.Millisecond)

	stored, err := env.repo.GetByID(t.Context(), env.controller.Active().ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Analysis.Phases[0].Epics[0].StartMonth)
	assert.Equal(t, 6, *stored.Analysis.Phases[0].Epics[0].StartMonth)
}

func TestControllerRegenerationCancelsPendingWrite(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()}, WithPersistDelay(time.Hour))

	_, err := env.controller.Generate(t.Context(), false)
	require.NoError(t, err)

	features := env.controller.Timeline()
	features[0].StartMonth = 9
	require.NoError(t, env.controller.EditFeatures(t.Context(), features))
	assert.True(t, env.controller.debounce.Pending())

	_, err = env.controller.Generate(t.Context(), true)
	require.NoError(t, err)

	assert.False(t, env.controller.debounce.Pending())
	assert.Equal(t, int32(0), env.repo.updates.Load())
}

func TestControllerSelectHistory(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()})

	first, err := env.controller.Generate(t.Context(), false)
	require.NoError(t, err)

	_, err = env.controller.Generate(t.Context(), true)
	require.NoError(t, err)

	history, err := env.controller.History(t.Context())
	require.NoError(t, err)
	require.Len(t, history, 2)

	require.NoError(t, env.controller.SelectHistory(t.Context(), first.ID))
	assert.Equal(t, first.ID, env.controller.Active().ID)

	state, _ := env.controller.State()
	assert.Equal(t, StateLoaded, state)
}

func TestControllerSelectHistoryMissing(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()})

	err := env.controller.SelectHistory(t.Context(), "no-such-snapshot")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestControllerEditAfterHistorySelectionPromotes(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()})

	first, err := env.controller.Generate(t.Context(), false)
	require.NoError(t, err)

	_, err = env.controller.Generate(t.Context(), true)
	require.NoError(t, err)

	require.NoError(t, env.controller.SelectHistory(t.Context(), first.ID))

	features := env.controller.Timeline()
	features[0].StartMonth = 3
	require.NoError(t, env.controller.EditFeatures(t.Context(), features))

	env.controller.Flush()

	// The archived snapshot was promoted to a new active one rather
	// than mutated in place.
	active := env.controller.Active()
	require.NotNil(t, active)
	assert.NotEqual(t, first.ID, active.ID)
	assert.Equal(t, models.RoadmapStatusActive, active.Status)

	archived, err := env.repo.GetByID(t.Context(), first.ID)
	require.NoError(t, err)
	assert.Nil(t, archived.Analysis.Phases[0].Epics[0].StartMonth)
}

func TestControllerViewModeToggle(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()})

	assert.Equal(t, ViewModeTimeline, env.controller.ViewMode())

	env.controller.SetViewMode(ViewModeDetailed)
	assert.Equal(t, ViewModeDetailed, env.controller.ViewMode())
}

func TestControllerSelectProjectLoadsActive(t *testing.T) {
	env := setupController(t, &stubGenerator{result: generatedAnalysis()})

	snapshot, err := env.controller.Generate(t.Context(), false)
	require.NoError(t, err)

	// A fresh controller over the same store picks up the active roadmap.
	controller := NewController(env.generator, env.repo, nil, testLogger())
	require.NoError(t, controller.SelectProject(t.Context(), env.project))

	state, _ := controller.State()
	assert.Equal(t, StateLoaded, state)
	require.NotNil(t, controller.Active())
	assert.Equal(t, snapshot.ID, controller.Active().ID)
}
