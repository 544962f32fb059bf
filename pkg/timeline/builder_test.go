package timeline

import (
	"testing"

	"github.com/planline/planline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPhaseAnalysis() *models.RoadmapAnalysis {
	return &models.RoadmapAnalysis{
		TotalDuration: "2 months",
		Phases: []*models.Phase{
			{
				Phase:    "Foundation",
				Duration: "4 weeks",
				Risks:    []string{"scope creep"},
				Epics: []*models.Epic{
					{Title: "Epic A", Description: "api groundwork"},
					{Title: "Epic B", Description: "ui shell"},
				},
			},
			{
				Phase:    "Delivery",
				Duration: "1 month",
				Epics: []*models.Epic{
					{Title: "Epic C", Description: "qa pass"},
				},
			},
		},
	}
}

func TestBuildEndToEndExample(t *testing.T) {
	features := Build(twoPhaseAnalysis(), nil)
	require.Len(t, features, 3)

	// Phase 0: "4 weeks" parses to 1 month split across 2 epics.
	assert.Equal(t, 0, features[0].StartMonth)
	assert.Equal(t, 1, features[0].Duration)
	assert.Equal(t, 0, features[1].StartMonth)
	assert.Equal(t, 1, features[1].Duration)

	// Phase 1 starts after the cursor advanced by phase 0's duration.
	assert.Equal(t, 1, features[2].StartMonth)
	assert.Equal(t, 1, features[2].Duration)

	// First-phase epics default to in-progress, later phases to planned.
	assert.Equal(t, models.EpicStatusInProgress, features[0].Status)
	assert.Equal(t, models.EpicStatusInProgress, features[1].Status)
	assert.Equal(t, models.EpicStatusPlanned, features[2].Status)
}

func TestBuildTotality(t *testing.T) {
	analysis := twoPhaseAnalysis()
	features := Build(analysis, nil)

	assert.Len(t, features, analysis.EpicCount())

	seen := make(map[string]bool)
	for _, feature := range features {
		assert.False(t, seen[feature.ID], "duplicate feature id %s", feature.ID)
		seen[feature.ID] = true
	}
}

func TestBuildMonthCursorMonotonic(t *testing.T) {
	analysis := &models.RoadmapAnalysis{
		Phases: []*models.Phase{
			{Duration: "2 months", Epics: []*models.Epic{{Title: "A"}}},
			{Duration: "6 weeks", Epics: []*models.Epic{{Title: "B"}}},
			{Duration: "", Epics: []*models.Epic{{Title: "C"}}},
			{Duration: "3 months", Epics: []*models.Epic{{Title: "D"}}},
		},
	}

	features := Build(analysis, nil)
	require.Len(t, features, 4)

	for i := 1; i < len(features); i++ {
		assert.GreaterOrEqual(t, features[i].StartMonth, features[i-1].StartMonth)
	}
}

func TestBuildExplicitFieldsWin(t *testing.T) {
	start := 7
	duration := 3
	analysis := &models.RoadmapAnalysis{
		Phases: []*models.Phase{
			{
				Duration: "1 month",
				Epics: []*models.Epic{
					{
						Title:             "Pinned epic",
						StartMonth:        &start,
						Duration:          &duration,
						Priority:          "HIGH",
						Status:            models.EpicStatusCompleted,
						OriginalFeatureID: "feat-42",
					},
				},
			},
		},
	}

	features := Build(analysis, nil)
	require.Len(t, features, 1)

	assert.Equal(t, "feat-42", features[0].ID)
	assert.Equal(t, 7, features[0].StartMonth)
	assert.Equal(t, 3, features[0].Duration)
	assert.Equal(t, models.PriorityHigh, features[0].Priority)
	assert.Equal(t, models.EpicStatusCompleted, features[0].Status)
}

func TestBuildDefaults(t *testing.T) {
	analysis := &models.RoadmapAnalysis{
		Phases: []*models.Phase{
			{
				Duration: "2 months",
				Epics: []*models.Epic{
					{Title: "A"}, {Title: "B"}, {Title: "C"},
				},
			},
		},
	}

	features := Build(analysis, nil)
	require.Len(t, features, 3)

	for i, feature := range features {
		// 2 months over 3 epics floors to 0 and clamps to 1.
		assert.Equal(t, 1, feature.Duration)
		assert.Equal(t, models.PriorityMedium, feature.Priority)
		assert.Equal(t, CompositeID(0, i), feature.ID)
	}
}

func TestBuildCarriesPhaseContext(t *testing.T) {
	features := Build(twoPhaseAnalysis(), nil)
	require.Len(t, features, 3)

	assert.Equal(t, []string{"scope creep"}, features[0].Risks)
	assert.Equal(t, 0, features[1].PhaseIndex)
	assert.Equal(t, 1, features[1].EpicIndex)
	assert.Equal(t, 1, features[2].PhaseIndex)
	assert.Equal(t, 0, features[2].EpicIndex)
}

func TestBuildNilAnalysis(t *testing.T) {
	assert.Nil(t, Build(nil, nil))
}

func TestBuildIsDeterministic(t *testing.T) {
	analysis := twoPhaseAnalysis()

	first := Build(analysis, nil)
	second := Build(analysis, nil)

	assert.Equal(t, first, second)
}
