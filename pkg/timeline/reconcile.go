package timeline

import (
	"log/slog"

	"github.com/planline/planline/pkg/models"
)

// Reconcile writes scheduling edits from a flat feature list back into
// the nested analysis, mutating it in place and returning the same
// pointer. For each epic the first matching feature wins, trying in
// order: original feature ID, composite "{phase}-{epic}" ID, positional
// indices, then title. An epic with no matching feature is left
// untouched; the miss is logged at debug level but is not an error.
// Duplicate epic titles can mismatch under the title strategy; stable
// identifiers end to end are not guaranteed, so this stays best-effort.
// Reconcile is idempotent for a fixed feature list.
func Reconcile(analysis *models.RoadmapAnalysis, features []models.TimelineFeature, logger *slog.Logger) *models.RoadmapAnalysis {
	if analysis == nil {
		return nil
	}

	if logger == nil {
		logger = slog.Default()
	}

	for phaseIndex, phase := range analysis.Phases {
		for epicIndex, epic := range phase.Epics {
			feature, ok := matchFeature(features, epic, phaseIndex, epicIndex)
			if !ok {
				logger.Debug("no timeline feature matched epic",
					"phase_index", phaseIndex,
					"epic_index", epicIndex,
					"title", epic.Title)

				continue
			}

			startMonth := feature.StartMonth
			duration := feature.Duration

			epic.StartMonth = &startMonth
			epic.Duration = &duration
			epic.Team = feature.Team
			epic.Status = feature.Status
		}
	}

	return analysis
}

func matchFeature(features []models.TimelineFeature, epic *models.Epic, phaseIndex, epicIndex int) (*models.TimelineFeature, bool) {
	compositeID := CompositeID(phaseIndex, epicIndex)

	for i := range features {
		feature := &features[i]

		if epic.OriginalFeatureID != "" && feature.ID == epic.OriginalFeatureID {
			return feature, true
		}
	}

	for i := range features {
		if features[i].ID == compositeID {
			return &features[i], true
		}
	}

	for i := range features {
		feature := &features[i]

		if feature.PhaseIndex == phaseIndex && feature.EpicIndex == epicIndex {
			return feature, true
		}
	}

	for i := range features {
		if features[i].Title == epic.Title {
			return &features[i], true
		}
	}

	return nil, false
}
