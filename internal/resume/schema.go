package resume

import "github.com/vintervu/vintervu/internal/llm"

// Schema defines the JSON object requested when extracting a profile.
var Schema = &llm.Schema{
	Name:        "resume-profile",
	Description: "Skills and project titles found in a resume",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"skills": map[string]any{
				"type":        "array",
				"description": "All skills: technical, soft and domain-specific",
				"items":       map[string]any{"type": "string"},
			},
			"projects": map[string]any{
				"type":        "array",
				"description": "Project titles only",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required":             []any{"skills", "projects"},
		"additionalProperties": false,
	},
}
