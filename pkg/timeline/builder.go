package timeline

import (
	"strconv"
	"strings"

	"github.com/planline/planline/pkg/models"
)

// Build flattens a roadmap analysis into scheduled timeline features.
// Months are 0-based: the first phase starts at month 0 and the cursor
// advances by each phase's parsed duration. Every epic produces exactly
// one feature, in phase-then-epic order, and every scheduling field on
// the output is concrete even when the source epic leaves it unset.
// Build is deterministic and never mutates its input.
func Build(analysis *models.RoadmapAnalysis, project *models.Project) []models.TimelineFeature {
	if analysis == nil {
		return nil
	}

	features := make([]models.TimelineFeature, 0, analysis.EpicCount())
	monthCursor := 0

	for phaseIndex, phase := range analysis.Phases {
		phaseDuration := ParseDuration(phase.Duration)

		for epicIndex, epic := range phase.Epics {
			features = append(features, buildFeature(
				epic, phase, project,
				phaseIndex, epicIndex,
				monthCursor, phaseDuration, len(phase.Epics),
			))
		}

		monthCursor += phaseDuration
	}

	return features
}

func buildFeature(
	epic *models.Epic,
	phase *models.Phase,
	project *models.Project,
	phaseIndex, epicIndex int,
	monthCursor, phaseDuration, epicsInPhase int,
) models.TimelineFeature {
	feature := models.TimelineFeature{
		ID:              CompositeID(phaseIndex, epicIndex),
		Title:           epic.Title,
		Description:     epic.Description,
		StartMonth:      monthCursor,
		Team:            ClassifyTeam(epic, project),
		Priority:        models.PriorityMedium,
		Status:          models.EpicStatusPlanned,
		Complexity:      epic.Complexity,
		UserStories:     epic.UserStories,
		Deliverables:    epic.Deliverables,
		RelatedIdeas:    epic.RelatedIdeas,
		Risks:           phase.Risks,
		SuccessCriteria: phase.SuccessCriteria,
		PhaseIndex:      phaseIndex,
		EpicIndex:       epicIndex,
	}

	if epic.OriginalFeatureID != "" {
		feature.ID = epic.OriginalFeatureID
	}

	if epic.StartMonth != nil {
		feature.StartMonth = *epic.StartMonth
	}

	feature.Duration = defaultEpicDuration(phaseDuration, epicsInPhase)
	if epic.Duration != nil {
		feature.Duration = *epic.Duration
	}

	if epic.Priority != "" {
		feature.Priority = models.Priority(strings.ToLower(string(epic.Priority)))
	}

	switch {
	case epic.Status != "":
		feature.Status = epic.Status
	case phaseIndex == 0:
		feature.Status = models.EpicStatusInProgress
	}

	return feature
}

// defaultEpicDuration splits a phase's duration evenly across its epics,
// never below one month.
func defaultEpicDuration(phaseDuration, epicsInPhase int) int {
	if epicsInPhase <= 0 {
		return 1
	}

	duration := phaseDuration / epicsInPhase
	if duration < 1 {
		return 1
	}

	return duration
}

// CompositeID is the synthetic feature identifier used when an epic has
// no original feature ID: "{phaseIndex}-{epicIndex}".
func CompositeID(phaseIndex, epicIndex int) string {
	return strconv.Itoa(phaseIndex) + "-" + strconv.Itoa(epicIndex)
}
