// Package janitor provides scheduled retention cleanup for roadmap
// snapshot history.
package janitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/services"
	"github.com/robfig/cron/v3"
)

const (
	// DefaultSchedule prunes nightly.
	DefaultSchedule = "0 3 * * *"

	// DefaultRetention is how many archived snapshots survive per project.
	DefaultRetention = 10

	runTimeout = 5 * time.Minute
)

// Janitor sweeps every project on a cron schedule and prunes archived
// roadmap snapshots beyond the retention count. The active snapshot is
// never touched.
type Janitor struct {
	roadmapService *services.Roadmap
	projects       persistence.ProjectRepository
	logger         *slog.Logger
	cron           *cron.Cron
	schedule       string
	retention      int
}

// NewJanitor creates a janitor with the given cron schedule and
// retention count. Zero values fall back to the defaults.
func NewJanitor(
	roadmapService *services.Roadmap,
	projects persistence.ProjectRepository,
	logger *slog.Logger,
	schedule string,
	retention int,
) *Janitor {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	if retention <= 0 {
		retention = DefaultRetention
	}

	return &Janitor{
		roadmapService: roadmapService,
		projects:       projects,
		logger:         logger.With("module", "janitor"),
		schedule:       schedule,
		retention:      retention,
	}
}

// Start validates the schedule and begins the sweep loop.
func (j *Janitor) Start(ctx context.Context) error {
	if _, err := cron.ParseStandard(j.schedule); err != nil {
		return fmt.Errorf("invalid cron expression '%s': %w", j.schedule, err)
	}

	j.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := j.cron.AddFunc(j.schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()

		if err := j.Sweep(runCtx); err != nil {
			j.logger.Error("Retention sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	j.cron.Start()
	j.logger.Info("Janitor started", "schedule", j.schedule, "retention", j.retention)

	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}

	<-j.cron.Stop().Done()
	j.logger.Info("Janitor stopped")
}

// Sweep prunes every project once. Per-project failures are collected
// so one broken project does not shield the rest from cleanup.
func (j *Janitor) Sweep(ctx context.Context) error {
	projects, err := j.projects.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	var errs []error

	total := 0

	for _, project := range projects {
		removed, err := j.roadmapService.Prune(ctx, project.ID, j.retention)
		if err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", project.ID, err))

			continue
		}

		total += removed
	}

	if total > 0 {
		j.logger.Info("Retention sweep completed", "projects", len(projects), "removed", total)
	}

	return errors.Join(errs...)
}
