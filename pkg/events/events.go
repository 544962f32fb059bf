// Package events defines event types and structures for roadmap lifecycle notifications.
package events

import (
	"time"
)

type EventType string

// Kafka topic.
const Topic = "planline.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	RoadmapGeneratedEvent EventType = "roadmap.generated"
	RoadmapUpdatedEvent   EventType = "roadmap.updated"
	RoadmapPrunedEvent    EventType = "roadmap.pruned"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	ProjectID string         `json:"project_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// RoadmapGenerated signals a freshly generated roadmap snapshot.
type RoadmapGenerated struct {
	BaseEvent

	RoadmapID string `json:"roadmap_id"`
	IdeaCount int    `json:"idea_count"`
	Phases    int    `json:"phases"`
	FromCache bool   `json:"from_cache"`
}

func (r RoadmapGenerated) GetType() EventType {
	return RoadmapGeneratedEvent
}

// RoadmapUpdated signals a persisted edit to the active roadmap.
type RoadmapUpdated struct {
	BaseEvent

	RoadmapID   string `json:"roadmap_id"`
	EditedEpics int    `json:"edited_epics"`
}

func (r RoadmapUpdated) GetType() EventType {
	return RoadmapUpdatedEvent
}

// RoadmapPruned signals history retention cleanup for a project.
type RoadmapPruned struct {
	BaseEvent

	Removed int `json:"removed"`
	Kept    int `json:"kept"`
}

func (r RoadmapPruned) GetType() EventType {
	return RoadmapPrunedEvent
}
