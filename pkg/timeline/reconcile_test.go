package timeline

import (
	"testing"

	"github.com/planline/planline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileByCompositeID(t *testing.T) {
	analysis := twoPhaseAnalysis()
	features := Build(analysis, nil)

	features[2].StartMonth = 4
	features[2].Duration = 2
	features[2].Team = models.TeamBackend
	features[2].Status = models.EpicStatusCompleted

	Reconcile(analysis, features, nil)

	epic := analysis.Phases[1].Epics[0]
	require.NotNil(t, epic.StartMonth)
	require.NotNil(t, epic.Duration)
	assert.Equal(t, 4, *epic.StartMonth)
	assert.Equal(t, 2, *epic.Duration)
	assert.Equal(t, models.TeamBackend, epic.Team)
	assert.Equal(t, models.EpicStatusCompleted, epic.Status)
}

func TestReconcileByOriginalFeatureID(t *testing.T) {
	analysis := &models.RoadmapAnalysis{
		Phases: []*models.Phase{
			{
				Duration: "1 month",
				Epics: []*models.Epic{
					{Title: "Tracked epic", OriginalFeatureID: "feat-9"},
				},
			},
		},
	}

	// Indices deliberately wrong: the ID match must still win.
	features := []models.TimelineFeature{
		{ID: "feat-9", StartMonth: 5, Duration: 2, Team: models.TeamWeb, Status: models.EpicStatusPlanned, PhaseIndex: 3, EpicIndex: 3},
	}

	Reconcile(analysis, features, nil)

	epic := analysis.Phases[0].Epics[0]
	require.NotNil(t, epic.StartMonth)
	assert.Equal(t, 5, *epic.StartMonth)
	assert.Equal(t, models.TeamWeb, epic.Team)
}

func TestReconcileByPositionThenTitle(t *testing.T) {
	analysis := &models.RoadmapAnalysis{
		Phases: []*models.Phase{
			{
				Duration: "1 month",
				Epics: []*models.Epic{
					{Title: "By position"},
					{Title: "By title"},
				},
			},
		},
	}

	features := []models.TimelineFeature{
		{ID: "unrelated-1", StartMonth: 2, Duration: 1, Team: models.TeamTesting, Status: models.EpicStatusPlanned, PhaseIndex: 0, EpicIndex: 0},
		{ID: "unrelated-2", Title: "By title", StartMonth: 3, Duration: 1, Team: models.TeamMobile, Status: models.EpicStatusPlanned, PhaseIndex: 9, EpicIndex: 9},
	}

	Reconcile(analysis, features, nil)

	first := analysis.Phases[0].Epics[0]
	require.NotNil(t, first.StartMonth)
	assert.Equal(t, 2, *first.StartMonth)
	assert.Equal(t, models.TeamTesting, first.Team)

	second := analysis.Phases[0].Epics[1]
	require.NotNil(t, second.StartMonth)
	assert.Equal(t, 3, *second.StartMonth)
	assert.Equal(t, models.TeamMobile, second.Team)
}

func TestReconcileMissIsNoOp(t *testing.T) {
	analysis := &models.RoadmapAnalysis{
		Phases: []*models.Phase{
			{Duration: "1 month", Epics: []*models.Epic{{Title: "Orphan"}}},
		},
	}

	Reconcile(analysis, nil, nil)

	epic := analysis.Phases[0].Epics[0]
	assert.Nil(t, epic.StartMonth)
	assert.Nil(t, epic.Duration)
	assert.Empty(t, epic.Team)
}

func TestReconcileIdempotent(t *testing.T) {
	analysis := twoPhaseAnalysis()
	features := Build(analysis, nil)
	features[0].StartMonth = 9

	Reconcile(analysis, features, nil)
	once := *analysis.Phases[0].Epics[0]

	Reconcile(analysis, features, nil)
	twice := *analysis.Phases[0].Epics[0]

	assert.Equal(t, *once.StartMonth, *twice.StartMonth)
	assert.Equal(t, *once.Duration, *twice.Duration)
	assert.Equal(t, once.Team, twice.Team)
	assert.Equal(t, once.Status, twice.Status)
}

func TestReconcileReturnsSamePointer(t *testing.T) {
	analysis := twoPhaseAnalysis()

	assert.Same(t, analysis, Reconcile(analysis, nil, nil))
}

func TestReconcileRoundTrip(t *testing.T) {
	analysis := twoPhaseAnalysis()
	features := Build(analysis, nil)

	features[1].StartMonth = 6
	Reconcile(analysis, features, nil)

	rebuilt := Build(analysis, nil)
	require.Len(t, rebuilt, 3)
	assert.Equal(t, 6, rebuilt[1].StartMonth)
}
