package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/planline/planline/pkg/eventbus"
	"github.com/planline/planline/pkg/events"
	"github.com/planline/planline/pkg/export"
	"github.com/planline/planline/pkg/generation"
	"github.com/planline/planline/pkg/models"
	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/timeline"
)

// ErrRoadmapNotFound is returned when a roadmap snapshot is not found.
var ErrRoadmapNotFound = persistence.ErrRoadmapNotFound

// ErrNoIdeas is returned when generation is requested for a project
// without ideas.
var ErrNoIdeas = generation.ErrNoIdeas

// Roadmap orchestrates generation, timeline projection, edits, and
// history for a project's roadmap snapshots.
type Roadmap struct {
	persistence persistence.Persistence
	generator   generation.Generator
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
}

// NewRoadmap creates a new roadmap service.
func NewRoadmap(
	persistence persistence.Persistence,
	generator generation.Generator,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *Roadmap {
	return &Roadmap{
		persistence: persistence,
		generator:   generator,
		publisher:   publisher,
		logger:      logger.With("module", "roadmap_service"),
	}
}

// Generate runs the AI collaborator over a project's ideas and stores
// the result as the new active snapshot. When an active roadmap already
// exists the caller must pass force=true.
func (r *Roadmap) Generate(ctx context.Context, projectID string, force bool) (*models.RoadmapSnapshot, error) {
	project, err := r.persistence.ProjectRepository().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project == nil {
		return nil, ErrProjectNotFound
	}

	active, err := r.Active(ctx, projectID)
	if err != nil && !IsNotFoundError(err) {
		return nil, err
	}

	if active != nil && !force {
		return nil, ErrRoadmapExists
	}

	ideas, err := r.persistence.IdeaRepository().ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}

	if len(ideas) == 0 {
		return nil, ErrNoIdeas
	}

	analysis, err := r.generator.Generate(ctx, ideas, project.Name, project.Type)
	if err != nil {
		return nil, err
	}

	snapshot := &models.RoadmapSnapshot{
		ProjectID: projectID,
		Analysis:  analysis,
		AuthorID:  project.Owner,
		IdeaCount: len(ideas),
	}

	if err := r.persistence.RoadmapRepository().Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save roadmap: %w", err)
	}

	r.publish(ctx, events.RoadmapGenerated{
		BaseEvent: r.baseEvent(events.RoadmapGeneratedEvent, projectID),
		RoadmapID: snapshot.ID,
		IdeaCount: snapshot.IdeaCount,
		Phases:    len(analysis.Phases),
	})

	return snapshot, nil
}

// Active returns the project's active snapshot.
func (r *Roadmap) Active(ctx context.Context, projectID string) (*models.RoadmapSnapshot, error) {
	snapshots, err := r.persistence.RoadmapRepository().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for _, snapshot := range snapshots {
		if snapshot.Status == models.RoadmapStatusActive {
			return snapshot, nil
		}
	}

	return nil, ErrRoadmapNotFound
}

// History lists a project's snapshots, newest first.
func (r *Roadmap) History(ctx context.Context, projectID string) ([]*models.RoadmapSnapshot, error) {
	return r.persistence.RoadmapRepository().ListByProject(ctx, projectID)
}

// FetchByID retrieves a snapshot by its ID.
func (r *Roadmap) FetchByID(ctx context.Context, id string) (*models.RoadmapSnapshot, error) {
	snapshot, err := r.persistence.RoadmapRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if snapshot == nil {
		return nil, ErrRoadmapNotFound
	}

	return snapshot, nil
}

// Timeline returns the flat scheduled projection of the project's
// active snapshot.
func (r *Roadmap) Timeline(ctx context.Context, projectID string) ([]models.TimelineFeature, error) {
	project, err := r.persistence.ProjectRepository().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project == nil {
		return nil, ErrProjectNotFound
	}

	active, err := r.Active(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return timeline.Build(active.Analysis, project), nil
}

// EditFeatures reconciles edited timeline features into the active
// snapshot and persists the result. Editing an archived snapshot
// promotes it to a new active one rather than mutating the archive.
func (r *Roadmap) EditFeatures(
	ctx context.Context,
	snapshotID string,
	features []models.TimelineFeature,
) (*models.RoadmapSnapshot, error) {
	snapshot, err := r.FetchByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	timeline.Reconcile(snapshot.Analysis, features, r.logger)

	if snapshot.Status == models.RoadmapStatusArchived {
		snapshot.ID = ""
		snapshot.Status = models.RoadmapStatusActive

		if err := r.persistence.RoadmapRepository().Save(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("failed to promote edited snapshot: %w", err)
		}
	} else if err := r.persistence.RoadmapRepository().Update(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to update roadmap: %w", err)
	}

	r.publish(ctx, events.RoadmapUpdated{
		BaseEvent:   r.baseEvent(events.RoadmapUpdatedEvent, snapshot.ProjectID),
		RoadmapID:   snapshot.ID,
		EditedEpics: len(features),
	})

	return snapshot, nil
}

// Export writes the project's active timeline to w in the requested
// format.
func (r *Roadmap) Export(ctx context.Context, projectID string, format export.Format, w io.Writer) error {
	project, err := r.persistence.ProjectRepository().GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	if project == nil {
		return ErrProjectNotFound
	}

	active, err := r.Active(ctx, projectID)
	if err != nil {
		return err
	}

	features := timeline.Build(active.Analysis, project)

	return export.Write(w, format, features, export.Options{
		Title:       project.Name,
		Subtitle:    active.Analysis.TotalDuration,
		StartDate:   active.CreatedAt,
		ProjectType: project.Type,
	})
}

// Prune removes archived snapshots beyond the retention count and
// reports how many were deleted.
func (r *Roadmap) Prune(ctx context.Context, projectID string, keep int) (int, error) {
	removed, err := r.persistence.RoadmapRepository().Prune(ctx, projectID, keep)
	if err != nil {
		return removed, fmt.Errorf("failed to prune roadmaps: %w", err)
	}

	if removed > 0 {
		r.publish(ctx, events.RoadmapPruned{
			BaseEvent: r.baseEvent(events.RoadmapPrunedEvent, projectID),
			Removed:   removed,
			Kept:      keep,
		})
	}

	return removed, nil
}

func (r *Roadmap) baseEvent(eventType events.EventType, projectID string) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		ProjectID: projectID,
	}
}

func (r *Roadmap) publish(ctx context.Context, event eventbus.Event) {
	if r.publisher == nil {
		return
	}

	if err := r.publisher.Publish(ctx, string(event.GetType()), event); err != nil {
		r.logger.WarnContext(ctx, "failed to publish event", "type", event.GetType(), "error", err)
	}
}
