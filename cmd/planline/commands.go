package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/planline/planline/pkg/cmd"
	"github.com/planline/planline/pkg/export"
	"github.com/planline/planline/pkg/services"
	cli "github.com/urfave/cli/v3"
)

var errProjectIDRequired = errors.New("project ID argument is required")

func runTimeline(ctx context.Context, logger *slog.Logger, command *cli.Command) error {
	projectID := command.Args().First()
	if projectID == "" {
		return errProjectIDRequired
	}

	persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	roadmapService := services.NewRoadmap(persistence, nil, nil, logger)

	features, err := roadmapService.Timeline(ctx, projectID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTEAM\tPRIORITY\tSTATUS\tSTART\tMONTHS")

	for _, feature := range features {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			feature.ID,
			feature.Title,
			feature.Team,
			feature.Priority,
			feature.Status,
			feature.StartMonth,
			feature.Duration,
		)
	}

	return w.Flush()
}

func runExport(ctx context.Context, logger *slog.Logger, command *cli.Command) error {
	projectID := command.Args().First()
	if projectID == "" {
		return errProjectIDRequired
	}

	persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	roadmapService := services.NewRoadmap(persistence, nil, nil, logger)

	var out io.Writer = os.Stdout

	if path := command.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}

		defer func() {
			if err := f.Close(); err != nil {
				logger.ErrorContext(ctx, "Failed to close output file", "error", err)
			}
		}()

		out = f
	}

	format := export.Format(command.String("format"))

	return roadmapService.Export(ctx, projectID, format, out)
}
