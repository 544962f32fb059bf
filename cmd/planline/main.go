package main

import (
	"context"
	"os"

	"github.com/planline/planline/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func main() {
	logger := log.WithModule("cli")

	command := &cli.Command{
		Name:                  "planline",
		Usage:                 "Inspect and export roadmap timelines",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database connection URL for persistence (postgres:// or file://)",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "timeline",
				Aliases:   []string{"t"},
				Usage:     "Print the active roadmap timeline for a project",
				ArgsUsage: "<project-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log.Setup(cmd.String("log-level"))

					return runTimeline(ctx, logger, cmd)
				},
			},
			{
				Name:      "export",
				Aliases:   []string{"e"},
				Usage:     "Export the active roadmap timeline to CSV or JSON",
				ArgsUsage: "<project-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, json)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (stdout if omitted)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log.Setup(cmd.String("log-level"))

					return runExport(ctx, logger, cmd)
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
