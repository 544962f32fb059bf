package generation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// roadmapSchema is the contract the AI payload must satisfy before it
// is accepted as a RoadmapAnalysis. The model occasionally hallucinates
// shapes; anything off-schema is rejected as ErrInvalidPayload rather
// than half-parsed.
const roadmapSchema = `{
	"type": "object",
	"required": ["total_duration", "phases"],
	"properties": {
		"total_duration": {"type": "string"},
		"phases": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["phase", "epics"],
				"properties": {
					"phase": {"type": "string"},
					"duration": {"type": "string"},
					"description": {"type": "string"},
					"risks": {"type": "array", "items": {"type": "string"}},
					"success_criteria": {"type": "array", "items": {"type": "string"}},
					"epics": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["title"],
							"properties": {
								"title": {"type": "string", "minLength": 1},
								"description": {"type": "string"},
								"user_stories": {"type": "array", "items": {"type": "string"}},
								"deliverables": {"type": "array", "items": {"type": "string"}},
								"related_ideas": {"type": "array", "items": {"type": "string"}},
								"priority": {"type": "string"},
								"complexity": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

var compiledSchema = gojsonschema.NewStringLoader(roadmapSchema)

// validatePayload checks a raw AI response document against the roadmap
// schema.
func validatePayload(document []byte) error {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	if !result.Valid() {
		detail := ""
		for _, desc := range result.Errors() {
			if detail != "" {
				detail += "; "
			}

			detail += desc.String()
		}

		return fmt.Errorf("%w: %s", ErrInvalidPayload, detail)
	}

	return nil
}
