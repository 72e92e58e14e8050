package llm

import "encoding/json"

// questionSchema mirrors the shape contentgen asks for.
func questionSchema(name string) *Schema {
	return &Schema{
		Name:        name,
		Description: "A batch of multiple-choice practice questions",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"category":      map[string]any{"type": "string", "enum": []any{"vocabulary", "grammar", "math"}},
							"prompt":        map[string]any{"type": "string"},
							"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							"correct_index": map[string]any{"type": "integer", "minimum": 0},
						},
						"required": []any{"category", "prompt", "options", "correct_index"},
					},
				},
			},
			"required": []any{"questions"},
		},
	}
}

const questionJSON = `{"questions":[{"category":"vocabulary","prompt":"Which word means 'brief'?","options":["terse","verbose","ornate","lavish"],"correct_index":0}]}`

func ask() Request {
	return Request{
		System:    "You write practice questions.",
		Messages:  []Message{{Role: RoleUser, Content: "Write 1 vocabulary question."}},
		MaxTokens: 512,
	}
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }
