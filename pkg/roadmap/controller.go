// Package roadmap holds the controller that owns a project's active
// roadmap: generation, history selection, timeline edits with debounced
// persistence, and the loading state machine around them.
package roadmap

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/planline/planline/pkg/eventbus"
	"github.com/planline/planline/pkg/events"
	"github.com/planline/planline/pkg/generation"
	"github.com/planline/planline/pkg/models"
	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/timeline"
)

// State is the lifecycle state of the active-roadmap slot.
type State string

const (
	StateEmpty   State = "empty"   // No active roadmap
	StateLoading State = "loading" // Generation in flight
	StateLoaded  State = "loaded"  // Roadmap present
	StateFailed  State = "failed"  // Last generation failed; previous roadmap, if any, retained
)

// ViewMode is orthogonal presentation state, not part of the lifecycle
// state machine.
type ViewMode string

const (
	ViewModeTimeline ViewMode = "timeline"
	ViewModeDetailed ViewMode = "detailed"
)

var (
	// ErrNoProject indicates no project is selected.
	ErrNoProject = errors.New("no project selected")

	// ErrNoIdeas indicates the selected project has no ideas to roadmap.
	ErrNoIdeas = errors.New("project has no ideas")

	// ErrRoadmapExists indicates a roadmap already exists and regeneration
	// was not confirmed.
	ErrRoadmapExists = errors.New("a roadmap already exists; confirm regeneration")

	// ErrGenerationInFlight indicates a generation is already running.
	ErrGenerationInFlight = errors.New("roadmap generation already in flight")

	// ErrGenerationTimeout indicates the generation call exceeded its deadline.
	ErrGenerationTimeout = errors.New("roadmap generation timed out")

	// ErrSnapshotNotFound indicates the requested history entry does not exist.
	ErrSnapshotNotFound = errors.New("roadmap snapshot not found")
)

const (
	defaultPersistDelay      = 2 * time.Second
	defaultGenerationTimeout = 2 * time.Minute
)

// Controller owns the active roadmap for one selected project. All
// mutation of the nested analysis goes through it: the reconciler runs
// under its lock and persistence writes are debounced so rapid timeline
// edits collapse into a single update. A regeneration cancels any
// pending write, since edits to a roadmap about to be replaced are
// meaningless.
type Controller struct {
	generator generation.Generator
	roadmaps  persistence.RoadmapRepository
	ideas     persistence.IdeaRepository
	publisher eventbus.EventPublisher
	logger    *slog.Logger

	persistDelay      time.Duration
	generationTimeout time.Duration

	mu       sync.Mutex
	project  *models.Project
	active   *models.RoadmapSnapshot
	state    State
	lastErr  error
	viewMode ViewMode
	genToken int
	debounce *Debouncer
}

// Option configures a Controller.
type Option func(*Controller)

// WithPersistDelay overrides the debounce delay for edit persistence.
func WithPersistDelay(delay time.Duration) Option {
	return func(c *Controller) { c.persistDelay = delay }
}

// WithGenerationTimeout overrides the generation deadline.
func WithGenerationTimeout(timeout time.Duration) Option {
	return func(c *Controller) { c.generationTimeout = timeout }
}

// WithPublisher attaches an event publisher for roadmap lifecycle events.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(c *Controller) { c.publisher = publisher }
}

// NewController creates a controller in the empty state.
func NewController(
	generator generation.Generator,
	roadmaps persistence.RoadmapRepository,
	ideas persistence.IdeaRepository,
	logger *slog.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		generator:         generator,
		roadmaps:          roadmaps,
		ideas:             ideas,
		logger:            logger.With("module", "roadmap_controller"),
		persistDelay:      defaultPersistDelay,
		generationTimeout: defaultGenerationTimeout,
		state:             StateEmpty,
		viewMode:          ViewModeTimeline,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.debounce = NewDebouncer(c.persistDelay)

	return c
}

// SelectProject switches the controller to a project and loads its
// active roadmap, if one is stored. Any pending edit write for the
// previous project is flushed first.
func (c *Controller) SelectProject(ctx context.Context, project *models.Project) error {
	c.debounce.Flush()

	snapshots, err := c.roadmaps.ListByProject(ctx, project.ID)
	if err != nil {
		return err
	}

	var active *models.RoadmapSnapshot

	for _, snapshot := range snapshots {
		if snapshot.Status == models.RoadmapStatusActive {
			active = snapshot

			break
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.project = project
	c.active = active
	c.lastErr = nil
	c.genToken++

	if active != nil {
		c.state = StateLoaded
	} else {
		c.state = StateEmpty
	}

	return nil
}

// Generate runs the AI collaborator over the project's ideas and makes
// the result the active roadmap. When a roadmap already exists the
// caller must pass force=true (the confirmation gate). A failed
// generation never clears a previously loaded roadmap.
func (c *Controller) Generate(ctx context.Context, force bool) (*models.RoadmapSnapshot, error) {
	c.mu.Lock()

	if c.project == nil {
		c.mu.Unlock()

		return nil, ErrNoProject
	}

	if c.state == StateLoading {
		c.mu.Unlock()

		return nil, ErrGenerationInFlight
	}

	if c.active != nil && !force {
		c.mu.Unlock()

		return nil, ErrRoadmapExists
	}

	project := c.project
	hadRoadmap := c.active != nil

	c.genToken++
	token := c.genToken
	c.state = StateLoading
	c.lastErr = nil

	// Edits to a roadmap that is about to be replaced are meaningless.
	c.debounce.Cancel()

	c.mu.Unlock()

	ideas, err := c.ideas.ListByProject(ctx, project.ID)
	if err == nil && len(ideas) == 0 {
		err = ErrNoIdeas
	}

	var analysis *models.RoadmapAnalysis

	if err == nil {
		genCtx, cancel := context.WithTimeout(ctx, c.generationTimeout)
		analysis, err = c.generator.Generate(genCtx, ideas, project.Name, project.Type)

		if err != nil && errors.Is(err, context.DeadlineExceeded) {
			err = ErrGenerationTimeout
		}

		cancel()
	}

	if err == nil && analysis == nil {
		err = generation.ErrGenerationFailed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.genToken {
		// The controller moved on while this generation was in flight;
		// discard the stale result.
		c.logger.InfoContext(ctx, "discarding stale generation result", "project_id", project.ID)

		return nil, ErrGenerationInFlight
	}

	if err != nil {
		c.lastErr = err

		if hadRoadmap {
			c.state = StateLoaded
		} else {
			c.state = StateFailed
		}

		return nil, err
	}

	snapshot := &models.RoadmapSnapshot{
		ProjectID: project.ID,
		Analysis:  analysis,
		AuthorID:  project.Owner,
		IdeaCount: len(ideas),
	}

	if err := c.roadmaps.Save(ctx, snapshot); err != nil {
		// Persistence trouble must not undo a successful generation.
		c.logger.ErrorContext(ctx, "failed to persist generated roadmap",
			"project_id", project.ID, "error", err)
	}

	c.active = snapshot
	c.state = StateLoaded

	c.publish(ctx, events.RoadmapGenerated{
		BaseEvent: c.baseEvent(events.RoadmapGeneratedEvent, project.ID),
		RoadmapID: snapshot.ID,
		IdeaCount: snapshot.IdeaCount,
		Phases:    len(analysis.Phases),
	})

	return snapshot, nil
}

// SelectHistory replaces the active roadmap wholesale with a stored
// snapshot. No merge is attempted, and any pending edit write is
// cancelled.
func (c *Controller) SelectHistory(ctx context.Context, snapshotID string) error {
	snapshot, err := c.roadmaps.GetByID(ctx, snapshotID)
	if err != nil {
		return err
	}

	if snapshot == nil {
		return ErrSnapshotNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.debounce.Cancel()
	c.genToken++
	c.active = snapshot
	c.state = StateLoaded
	c.lastErr = nil

	return nil
}

// Timeline returns the flat scheduled projection of the active roadmap,
// or nil when none is loaded.
func (c *Controller) Timeline() []models.TimelineFeature {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return nil
	}

	return timeline.Build(c.active.Analysis, c.project)
}

// EditFeatures reconciles edited timeline features into the active
// roadmap synchronously, then schedules a debounced persistence write.
// A persistence failure is logged and never rolls back the in-memory
// edit.
func (c *Controller) EditFeatures(ctx context.Context, features []models.TimelineFeature) error {
	c.mu.Lock()

	if c.active == nil {
		c.mu.Unlock()

		return ErrNoProject
	}

	timeline.Reconcile(c.active.Analysis, features, c.logger)

	snapshot := c.active
	token := c.genToken
	edited := len(features)

	c.mu.Unlock()

	c.debounce.Arm(func() {
		c.persistEdits(snapshot, token, edited)
	})

	return nil
}

// persistEdits is the debounced write. It re-checks the generation
// token so a write armed before a regeneration or history switch does
// not clobber the replacement roadmap.
func (c *Controller) persistEdits(snapshot *models.RoadmapSnapshot, token, edited int) {
	c.mu.Lock()

	if token != c.genToken || c.active != snapshot {
		c.mu.Unlock()

		return
	}

	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error

	if snapshot.Status == models.RoadmapStatusArchived {
		// Editing a restored history entry promotes it to a new active
		// snapshot instead of mutating the immutable archive.
		restored := *snapshot
		restored.ID = ""
		restored.Status = models.RoadmapStatusActive

		err = c.roadmaps.Save(ctx, &restored)

		if err == nil {
			c.mu.Lock()
			if c.active == snapshot {
				c.active = &restored
			}
			c.mu.Unlock()

			snapshot = &restored
		}
	} else {
		err = c.roadmaps.Update(ctx, snapshot)
	}

	if err != nil {
		c.logger.Error("failed to persist roadmap edits",
			"roadmap_id", snapshot.ID, "error", err)

		return
	}

	c.publish(ctx, events.RoadmapUpdated{
		BaseEvent:   c.baseEvent(events.RoadmapUpdatedEvent, snapshot.ProjectID),
		RoadmapID:   snapshot.ID,
		EditedEpics: edited,
	})
}

// Flush forces any pending edit write to run now.
func (c *Controller) Flush() {
	c.debounce.Flush()
}

// Close cancels pending work without writing.
func (c *Controller) Close() {
	c.debounce.Cancel()
}

// History lists the selected project's snapshots, newest first.
func (c *Controller) History(ctx context.Context) ([]*models.RoadmapSnapshot, error) {
	c.mu.Lock()
	project := c.project
	c.mu.Unlock()

	if project == nil {
		return nil, ErrNoProject
	}

	return c.roadmaps.ListByProject(ctx, project.ID)
}

// State returns the lifecycle state and the last generation error, if
// any.
func (c *Controller) State() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state, c.lastErr
}

// Active returns the active roadmap snapshot, or nil.
func (c *Controller) Active() *models.RoadmapSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.active
}

// ViewMode returns the current presentation mode.
func (c *Controller) ViewMode() ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.viewMode
}

// SetViewMode toggles between timeline and detailed presentation.
func (c *Controller) SetViewMode(mode ViewMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewMode = mode
}

func (c *Controller) baseEvent(eventType events.EventType, projectID string) events.BaseEvent {
	id := ""
	if generator, ok := c.publisher.(interface{ GenerateID() string }); ok {
		id = generator.GenerateID()
	}

	return events.BaseEvent{
		ID:        id,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		ProjectID: projectID,
	}
}

func (c *Controller) publish(ctx context.Context, event eventbus.Event) {
	if c.publisher == nil {
		return
	}

	if err := c.publisher.Publish(ctx, string(event.GetType()), event); err != nil {
		c.logger.WarnContext(ctx, "failed to publish event", "type", event.GetType(), "error", err)
	}
}
