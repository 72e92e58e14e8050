// Package lessons generates grammar lessons and grades their quick checks.
package lessons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/llm"
)

// PurposeLesson labels lesson requests in the LLM log.
const PurposeLesson = "grammar-lesson"

// ErrMalformedLesson is returned when the model's lesson is unusable.
var ErrMalformedLesson = errors.New("malformed lesson")

// Lesson is a generated grammar lesson. QuickCheck is always a valid
// grammar question.
type Lesson struct {
	Topic       string
	Explanation string
	Examples    []string
	QuickCheck  catalog.Question
}

// Service generates lessons with an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

type lessonOutput struct {
	Topic       string           `json:"topic"`
	Explanation string           `json:"explanation"`
	Examples    []string         `json:"examples"`
	QuickCheck  quickCheckOutput `json:"quick_check"`
}

type quickCheckOutput struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// Generate asks the model for a lesson on topic.
func (s *Service) Generate(ctx context.Context, topic string) (*Lesson, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: empty topic", ErrMalformedLesson)
	}
	ctx = llm.WithPurpose(ctx, PurposeLesson)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(topic)}},
		Schema:      LessonSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("lesson generation: %w", err)
	}

	var out lessonOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse lesson response: %w", err)
	}
	return out.toLesson(topic)
}

func (o lessonOutput) toLesson(topic string) (*Lesson, error) {
	explanation := strings.TrimSpace(o.Explanation)
	if explanation == "" {
		return nil, fmt.Errorf("%w: no explanation", ErrMalformedLesson)
	}

	check := catalog.Question{
		ID:           "lesson:" + uuid.NewString(),
		Category:     catalog.CategoryGrammar,
		Prompt:       strings.TrimSpace(o.QuickCheck.Question),
		Options:      o.QuickCheck.Options,
		CorrectIndex: o.QuickCheck.CorrectIndex,
		Explanation:  strings.TrimSpace(o.QuickCheck.Explanation),
	}
	if clean, _ := catalog.FilterQuestions([]catalog.Question{check}); len(clean) == 0 {
		return nil, fmt.Errorf("%w: quick check", ErrMalformedLesson)
	}

	var examples []string
	for _, e := range o.Examples {
		if e = strings.TrimSpace(e); e != "" {
			examples = append(examples, e)
		}
	}
	return &Lesson{
		Topic:       topic,
		Explanation: explanation,
		Examples:    examples,
		QuickCheck:  check,
	}, nil
}
