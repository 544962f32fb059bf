package cmd

import (
	"context"
	"log/slog"

	"github.com/planline/planline/pkg/cache"
	"github.com/planline/planline/pkg/generation"
)

// NewCache returns a Redis cache when a URL is given, an in-process
// cache otherwise.
func NewCache(ctx context.Context, logger *slog.Logger, redisURL string) cache.Cache {
	if redisURL == "" {
		return cache.NewMemory()
	}

	c, err := cache.NewRedis(ctx, redisURL)
	if err != nil {
		logger.Warn("Redis unavailable, using in-process cache", "error", err)

		return cache.NewMemory()
	}

	return c
}

// NewGenerator wires the AI client with the generation cache so
// regenerating over unchanged ideas skips the upstream call.
//
// nolint:ireturn // Callers only need the Generator behavior
func NewGenerator(apiURL, apiKey string, c cache.Cache, logger *slog.Logger) generation.Generator {
	client := generation.NewClient(apiURL, apiKey, logger)

	return generation.NewCached(client, c, logger)
}
