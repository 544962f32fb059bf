// Package generation calls the external AI collaborator that turns a
// project's ideas into a phased roadmap analysis.
package generation

import (
	"context"
	"errors"

	"github.com/planline/planline/pkg/models"
)

// Generator produces a roadmap analysis from a project's ideas. A nil
// analysis without an error is never returned; failures are always
// surfaced as errors for the caller to classify.
type Generator interface {
	Generate(ctx context.Context, ideas []*models.Idea, projectName, projectType string) (*models.RoadmapAnalysis, error)
}

var (
	// ErrNoIdeas indicates generation was requested without any input ideas.
	ErrNoIdeas = errors.New("at least one idea is required to generate a roadmap")

	// ErrGenerationFailed indicates the AI collaborator returned no usable roadmap.
	ErrGenerationFailed = errors.New("roadmap generation failed")

	// ErrInvalidPayload indicates the AI response did not match the roadmap schema.
	ErrInvalidPayload = errors.New("generated roadmap payload is invalid")
)

// IsGenerationFailed checks if an error indicates an unusable generation result.
func IsGenerationFailed(err error) bool {
	return errors.Is(err, ErrGenerationFailed) || errors.Is(err, ErrInvalidPayload)
}
