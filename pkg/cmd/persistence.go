// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/persistence/file"
	"github.com/planline/planline/pkg/persistence/postgresql"
)

// NewPersistence dispatches on the database URL scheme. "postgres://"
// URLs get the PostgreSQL backend; everything else falls back to the
// file backend rooted at the URL path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(err)
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}
