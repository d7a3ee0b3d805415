package feedback

import "github.com/vintervu/vintervu/internal/llm"

// Schema defines the JSON object requested for each answered question. It is
// left open: a missing field gets its placeholder in Parse and unknown keys
// are ignored.
var Schema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "Short critique of an interview answer and a better way to answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "1-2 sentences on the strengths and weaknesses of the response",
			},
			"suggestion": map[string]any{
				"type":        "string",
				"description": "1-2 sentences describing an alternative way to answer the question",
			},
		},
	},
}
