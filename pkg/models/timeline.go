package models

// TimelineFeature is a flattened, schedule-resolved projection of an epic.
// It is derived state: rebuildable at any time from the owning
// RoadmapAnalysis and never persisted independently. PhaseIndex and
// EpicIndex are lookup references into the nested structure, not
// ownership.
type TimelineFeature struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	StartMonth      int        `json:"start_month"`
	Duration        int        `json:"duration"` // Months, always >= 1
	Team            Team       `json:"team"`
	Priority        Priority   `json:"priority"`
	Status          EpicStatus `json:"status"`
	Complexity      string     `json:"complexity,omitempty"`
	UserStories     []string   `json:"user_stories,omitempty"`
	Deliverables    []string   `json:"deliverables,omitempty"`
	RelatedIdeas    []string   `json:"related_ideas,omitempty"`
	Risks           []string   `json:"risks,omitempty"`             // Phase-level, carried for display
	SuccessCriteria []string   `json:"success_criteria,omitempty"`  // Phase-level, carried for display
	PhaseIndex      int        `json:"phase_index"`
	EpicIndex       int        `json:"epic_index"`
}
