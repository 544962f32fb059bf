package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/planline/planline/pkg/cache"
	"github.com/planline/planline/pkg/models"
)

const defaultCacheTTL = 24 * time.Hour

// Cached memoizes generation results in a cache keyed by an idea-set
// fingerprint, so regenerating with unchanged ideas skips the AI call.
type Cached struct {
	inner  Generator
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps a generator with cache memoization.
func NewCached(inner Generator, c cache.Cache, logger *slog.Logger) *Cached {
	return &Cached{
		inner:  inner,
		cache:  c,
		ttl:    defaultCacheTTL,
		logger: logger.With("module", "generation_cache"),
	}
}

func (c *Cached) Generate(ctx context.Context, ideas []*models.Idea, projectName, projectType string) (*models.RoadmapAnalysis, error) {
	key := Fingerprint(ideas, projectName, projectType)

	if payload, err := c.cache.Get(ctx, key); err == nil {
		var analysis models.RoadmapAnalysis
		if err := json.Unmarshal(payload, &analysis); err == nil {
			c.logger.DebugContext(ctx, "roadmap generation cache hit", "key", key)

			return &analysis, nil
		}
	} else if !cache.IsMiss(err) {
		// Cache trouble must not block generation.
		c.logger.WarnContext(ctx, "cache lookup failed", "key", key, "error", err)
	}

	analysis, err := c.inner.Generate(ctx, ideas, projectName, projectType)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(analysis); err == nil {
		if err := c.cache.Set(ctx, key, payload, c.ttl); err != nil {
			c.logger.WarnContext(ctx, "cache store failed", "key", key, "error", err)
		}
	}

	return analysis, nil
}

// Fingerprint derives a stable cache key from the generation input.
// Idea order does not matter; titles, descriptions, and scores do.
func Fingerprint(ideas []*models.Idea, projectName, projectType string) string {
	lines := make([]string, 0, len(ideas))

	for _, idea := range ideas {
		lines = append(lines, fmt.Sprintf("%s|%s|%d|%d", idea.Title, idea.Description, idea.Effort, idea.Impact))
	}

	sort.Strings(lines)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s\n", projectName, projectType)

	for _, line := range lines {
		fmt.Fprintln(h, line)
	}

	return "planline:roadmap:" + hex.EncodeToString(h.Sum(nil))
}
