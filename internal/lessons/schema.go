package lessons

import "github.com/abhisek/acedrill/internal/llm"

// LessonSchema defines the JSON schema for a grammar lesson.
var LessonSchema = &llm.Schema{
	Name:        "grammar-lesson",
	Description: "A grammar lesson with explanation, examples, and one quick check question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "The topic being taught",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "The rules of the topic, including the advanced cases, in plain prose",
			},
			"examples": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "3-5 example sentences, each showing one rule",
			},
			"quick_check": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{
						"type":        "string",
						"description": "A multiple-choice question testing the lesson",
					},
					"options": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string"},
						"minItems": 2,
						"maxItems": 5,
					},
					"correct_index": map[string]any{
						"type":        "integer",
						"minimum":     0,
						"description": "Zero-based index of the correct option",
					},
					"explanation": map[string]any{
						"type":        "string",
						"description": "Why the correct option is right",
					},
				},
				"required":             []any{"question", "options", "correct_index", "explanation"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"topic", "explanation", "examples", "quick_check"},
		"additionalProperties": false,
	},
}
