package lessons

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/llm"
	"github.com/abhisek/acedrill/internal/progress"
)

const lessonJSON = `{
	"topic": "Semicolons, Colons, and Dashes",
	"explanation": "A semicolon joins two independent clauses that are closely related.",
	"examples": ["I studied; I passed.", "  ", "She brought three things: a pen, a map, and water."],
	"quick_check": {
		"question": "Which sentence uses the semicolon correctly?",
		"options": ["I ran; fast.", "I ran; I won.", "I; ran.", "Ran; I."],
		"correct_index": 1,
		"explanation": "Both sides of the semicolon are independent clauses."
	}
}`

func TestGenerate(t *testing.T) {
	mock := llm.NewScripted(llm.Reply{Content: json.RawMessage(lessonJSON)})
	svc := NewService(mock, DefaultConfig(), nil)

	l, err := svc.Generate(context.Background(), Topics[1])
	require.NoError(t, err)

	assert.Equal(t, Topics[1], l.Topic)
	assert.Len(t, l.Examples, 2, "blank examples are dropped")
	assert.Equal(t, catalog.CategoryGrammar, l.QuickCheck.Category)
	assert.Equal(t, 1, l.QuickCheck.CorrectIndex)
	assert.Contains(t, l.QuickCheck.ID, "lesson:")

	require.Len(t, mock.Requests(), 1)
	req := mock.Requests()[0]
	assert.Equal(t, LessonSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Topic: Semicolons, Colons, and Dashes")
}

func TestGenerate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no explanation", `{"topic":"t","explanation":" ","examples":[],"quick_check":{"question":"q","options":["a","b"],"correct_index":0,"explanation":""}}`},
		{"one option", `{"topic":"t","explanation":"e","examples":[],"quick_check":{"question":"q","options":["a"],"correct_index":0,"explanation":""}}`},
		{"index out of range", `{"topic":"t","explanation":"e","examples":[],"quick_check":{"question":"q","options":["a","b"],"correct_index":4,"explanation":""}}`},
		{"no question", `{"topic":"t","explanation":"e","examples":[],"quick_check":{"question":"","options":["a","b"],"correct_index":0,"explanation":""}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(llm.NewScripted(llm.Reply{Content: json.RawMessage(tt.content)}), DefaultConfig(), nil)
			_, err := svc.Generate(context.Background(), "Commas")
			assert.ErrorIs(t, err, ErrMalformedLesson)
		})
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	svc := NewService(llm.NewScripted(), DefaultConfig(), nil)
	_, err := svc.Generate(context.Background(), "Commas")
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
}

func TestGenerate_EmptyTopic(t *testing.T) {
	mock := llm.NewScripted()
	_, err := NewService(mock, DefaultConfig(), nil).Generate(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMalformedLesson)
	assert.Empty(t, mock.Requests())
}

func lesson(t *testing.T) *Lesson {
	t.Helper()
	svc := NewService(llm.NewScripted(llm.Reply{Content: json.RawMessage(lessonJSON)}), DefaultConfig(), nil)
	l, err := svc.Generate(context.Background(), Topics[1])
	require.NoError(t, err)
	return l
}

func TestGrade(t *testing.T) {
	ctx := context.Background()

	t.Run("correct", func(t *testing.T) {
		p := progress.Open(ctx, progress.NewMemoryPersister(nil))
		ok, err := Grade(ctx, p, lesson(t), 1)
		require.NoError(t, err)
		assert.True(t, ok)

		rec := p.Snapshot()
		assert.Equal(t, QuickCheckXP, rec.XP)
		assert.Equal(t, 1, rec.QuestionsAnswered)
		assert.Equal(t, 1, rec.TotalCorrect)
		assert.Empty(t, rec.Mistakes)
	})

	t.Run("wrong", func(t *testing.T) {
		p := progress.Open(ctx, progress.NewMemoryPersister(nil))
		l := lesson(t)
		ok, err := Grade(ctx, p, l, 0)
		require.NoError(t, err)
		assert.False(t, ok)

		rec := p.Snapshot()
		assert.Equal(t, QuickCheckXP, rec.XP)
		assert.Equal(t, 1, rec.QuestionsAnswered)
		assert.Equal(t, 0, rec.TotalCorrect)
		require.Len(t, rec.Mistakes, 1)
		assert.Equal(t, l.QuickCheck.ID, rec.Mistakes[0].ID)
		assert.Equal(t, catalog.CategoryGrammar, rec.Mistakes[0].Category)
	})

	t.Run("out of range", func(t *testing.T) {
		p := progress.Open(ctx, progress.NewMemoryPersister(nil))
		_, err := Grade(ctx, p, lesson(t), 7)
		assert.ErrorIs(t, err, ErrOptionRange)
		assert.Equal(t, progress.Default(), p.Snapshot())
	})
}
