package contentgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/llm"
)

// PurposeQuestions labels question generation requests in the LLM log.
const PurposeQuestions = "practice-questions"

// Generator produces practice questions with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
	avoid    func(catalog.Category) []string
}

// New creates a Generator over provider.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// WithAvoid sets a callback listing prompts the model should not repeat,
// typically the learner's logged mistakes.
func (g *Generator) WithAvoid(fn func(catalog.Category) []string) *Generator {
	g.avoid = fn
	return g
}

type questionOutput struct {
	Category     string   `json:"category"`
	Passage      string   `json:"passage"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

type questionSetOutput struct {
	Questions []questionOutput `json:"questions"`
}

// Questions asks the model for count questions. Malformed records are
// dropped and counted in the log; they never fail the batch.
func (g *Generator) Questions(ctx context.Context, category catalog.Category, count int) ([]catalog.Question, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("generate %q: %w", category, catalog.ErrUnknownCategory)
	}
	if count <= 0 {
		count = category.QuestionCount()
	}
	ctx = llm.WithPurpose(ctx, PurposeQuestions)

	var avoid []string
	if g.avoid != nil {
		avoid = g.avoid(category)
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(category, count, avoid, g.config.MaxAvoid)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionSetOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	qs := make([]catalog.Question, 0, len(raw.Questions))
	for _, r := range raw.Questions {
		qs = append(qs, r.toQuestion(category))
	}

	clean, dropped := catalog.FilterQuestions(qs)
	if dropped > 0 {
		g.logger.Warn("dropped malformed generated questions",
			zap.String("category", string(category)), zap.Int("count", dropped))
	}
	if len(clean) > count {
		clean = clean[:count]
	}
	return clean, nil
}

func (r questionOutput) toQuestion(requested catalog.Category) catalog.Question {
	cat := requested
	if requested == catalog.CategoryMock {
		// Mock sections keep their own category; anything unrecognised is
		// left as-is so the filter drops it.
		cat = catalog.Category(strings.TrimSpace(r.Category))
		if parsed, ok := catalog.ParseCategory(r.Category); ok {
			cat = parsed
		}
	}
	return catalog.Question{
		ID:           uuid.NewString(),
		Category:     cat,
		Passage:      strings.TrimSpace(r.Passage),
		Prompt:       strings.TrimSpace(r.Prompt),
		Options:      r.Options,
		CorrectIndex: r.CorrectIndex,
		Explanation:  strings.TrimSpace(r.Explanation),
	}
}
