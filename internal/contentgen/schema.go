package contentgen

import (
	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/llm"
)

// QuestionSetSchema is the response shape for a batch of practice questions.
// The array is wrapped in an object because structured-output modes of
// several providers require an object root.
var QuestionSetSchema = &llm.Schema{
	Name:        "practice-questions",
	Description: "A batch of multiple-choice admissions test practice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionItemSchema(),
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

func questionItemSchema() map[string]any {
	cats := make([]any, 0, len(catalog.AllCategories()))
	for _, c := range catalog.AllCategories() {
		if c != catalog.CategoryMock {
			cats = append(cats, string(c))
		}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category": map[string]any{
				"type":        "string",
				"enum":        cats,
				"description": "Subject area of this question",
			},
			"passage": map[string]any{
				"type":        "string",
				"description": "Reading passage the question refers to, or an empty string",
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "The question shown to the student",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exactly 4 answer options",
			},
			"correct_index": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "Zero-based index of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct option is right and the others are not",
			},
		},
		"required":             []any{"category", "passage", "prompt", "options", "correct_index", "explanation"},
		"additionalProperties": false,
	}
}
