package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/planline/planline/pkg/eventbus"
	"github.com/planline/planline/pkg/events"
	"github.com/planline/planline/pkg/janitor"
	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/services"
	"github.com/planline/planline/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// WorkerManager consumes roadmap lifecycle events for audit logging and
// runs the scheduled retention janitor.
type WorkerManager struct {
	id            string
	logger        *slog.Logger
	persistence   persistence.Persistence
	eventBus      eventbus.EventBus
	tracer        trace.Tracer
	pruneSchedule string
	retention     int
}

func NewWorkerManager(
	id string,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	pruneSchedule string,
	retention int,
) *WorkerManager {
	return &WorkerManager{
		id:            id,
		logger:        logger.With("module", "planline-worker", "worker_id", id),
		persistence:   persistence,
		eventBus:      eventBus,
		tracer:        noop.NewTracerProvider().Tracer("planline-worker"),
		pruneSchedule: pruneSchedule,
		retention:     retention,
	}
}

func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker manager", "worker_id", w.id)

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tracer, err := telemetry.NewTracer(ctx, "planline-worker")
		if err != nil {
			return err
		}

		w.tracer = tracer
	}

	err := w.eventBus.Handle(events.RoadmapGeneratedEvent, w.handleRoadmapGenerated)
	if err != nil {
		return err
	}

	err = w.eventBus.Handle(events.RoadmapUpdatedEvent, w.handleRoadmapUpdated)
	if err != nil {
		return err
	}

	err = w.eventBus.Handle(events.RoadmapPrunedEvent, w.handleRoadmapPruned)
	if err != nil {
		return err
	}

	err = w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	roadmapService := services.NewRoadmap(w.persistence, nil, w.eventBus, w.logger)

	retentionJanitor := janitor.NewJanitor(
		roadmapService,
		w.persistence.ProjectRepository(),
		w.logger,
		w.pruneSchedule,
		w.retention,
	)

	if err := retentionJanitor.Start(ctx); err != nil {
		return err
	}

	defer retentionJanitor.Stop()

	w.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker...")

	return nil
}

func (w *WorkerManager) handleRoadmapGenerated(ctx context.Context, event any) error {
	generatedEvent, ok := event.(*events.RoadmapGenerated)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for RoadmapGenerated")

		return nil
	}

	spanCtx, span := telemetry.StartSpan(ctx, w.tracer, "worker.roadmap_generated",
		attribute.String(telemetry.ProjectIDKey, generatedEvent.ProjectID),
		attribute.String(telemetry.RoadmapIDKey, generatedEvent.RoadmapID),
		attribute.Int(telemetry.IdeaCountKey, generatedEvent.IdeaCount),
		attribute.Int(telemetry.PhaseCountKey, generatedEvent.Phases),
	)
	defer span.End()

	w.logger.InfoContext(spanCtx, "Roadmap generated",
		"project_id", generatedEvent.ProjectID,
		"roadmap_id", generatedEvent.RoadmapID,
		"idea_count", generatedEvent.IdeaCount,
		"phases", generatedEvent.Phases,
	)

	return nil
}

func (w *WorkerManager) handleRoadmapUpdated(ctx context.Context, event any) error {
	updatedEvent, ok := event.(*events.RoadmapUpdated)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for RoadmapUpdated")

		return nil
	}

	spanCtx, span := telemetry.StartSpan(ctx, w.tracer, "worker.roadmap_updated",
		attribute.String(telemetry.ProjectIDKey, updatedEvent.ProjectID),
		attribute.String(telemetry.RoadmapIDKey, updatedEvent.RoadmapID),
	)
	defer span.End()

	w.logger.InfoContext(spanCtx, "Roadmap updated",
		"project_id", updatedEvent.ProjectID,
		"roadmap_id", updatedEvent.RoadmapID,
		"edited_epics", updatedEvent.EditedEpics,
	)

	return nil
}

func (w *WorkerManager) handleRoadmapPruned(ctx context.Context, event any) error {
	prunedEvent, ok := event.(*events.RoadmapPruned)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for RoadmapPruned")

		return nil
	}

	spanCtx, span := telemetry.StartSpan(ctx, w.tracer, "worker.roadmap_pruned",
		attribute.String(telemetry.ProjectIDKey, prunedEvent.ProjectID),
	)
	defer span.End()

	w.logger.InfoContext(spanCtx, "Roadmap history pruned",
		"project_id", prunedEvent.ProjectID,
		"removed", prunedEvent.Removed,
		"kept", prunedEvent.Kept,
	)

	return nil
}
