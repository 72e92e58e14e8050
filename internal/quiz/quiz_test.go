package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/store"
)

type fakeHistory struct {
	entries []store.HistoryEntry
	err     error
}

func (f *fakeHistory) Append(_ context.Context, e store.HistoryEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeHistory) Recent(context.Context, store.QueryOpts) ([]store.HistoryEntry, error) {
	return f.entries, nil
}

func (f *fakeHistory) Prune(context.Context, int) error { return nil }

func questions(n int) []catalog.Question {
	qs := make([]catalog.Question, n)
	for i := range qs {
		qs[i] = catalog.Question{
			ID:           fmt.Sprintf("q%d", i),
			Category:     catalog.CategoryGrammar,
			Prompt:       fmt.Sprintf("question %d", i),
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
			Explanation:  "because",
		}
	}
	return qs
}

func newStore() *progress.Store {
	return progress.Open(context.Background(), progress.NewMemoryPersister(nil))
}

func TestNewExam_Empty(t *testing.T) {
	_, err := NewExam(newStore(), catalog.CategoryGrammar, nil, ExamOptions{})
	assert.ErrorIs(t, err, ErrNoQuestions)

	broken := []catalog.Question{{ID: "x", Category: catalog.CategoryGrammar, Prompt: "p", Options: []string{"only"}}}
	_, err = NewExam(newStore(), catalog.CategoryGrammar, broken, ExamOptions{})
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, err = NewExam(newStore(), catalog.Category("art"), questions(2), ExamOptions{})
	assert.ErrorIs(t, err, catalog.ErrUnknownCategory)
}

func TestExam_ChooseValidation(t *testing.T) {
	ex, err := NewExam(newStore(), catalog.CategoryGrammar, questions(2), ExamOptions{})
	require.NoError(t, err)

	assert.ErrorIs(t, ex.Choose("nope", 0), ErrUnknownQuestion)
	assert.ErrorIs(t, ex.Choose("q0", 4), ErrOptionRange)
	assert.ErrorIs(t, ex.Choose("q0", -1), ErrOptionRange)

	require.NoError(t, ex.Choose("q0", 2))
	require.NoError(t, ex.Choose("q0", 0))
	got, ok := ex.Answer("q0")
	assert.True(t, ok)
	assert.Equal(t, 0, got)
	assert.Equal(t, 1, ex.Answered())
}

func TestExam_SubmitRequiresEveryAnswer(t *testing.T) {
	s := newStore()
	ex, err := NewExam(s, catalog.CategoryGrammar, questions(3), ExamOptions{})
	require.NoError(t, err)
	require.NoError(t, ex.Choose("q0", 0))

	_, err = ex.Submit(context.Background())
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Empty(t, s.Snapshot().Mistakes)

	_, err = ex.Finish(context.Background())
	assert.ErrorIs(t, err, ErrNotSubmitted)
}

func TestExam_SubmitAndFinish(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	hist := &fakeHistory{}
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := start
	ex, err := NewExam(s, catalog.CategoryGrammar, questions(4), ExamOptions{
		History: hist,
		Now:     func() time.Time { return clock },
	})
	require.NoError(t, err)

	// q0 and q1 right, q2 and q3 wrong.
	require.NoError(t, ex.Choose("q0", 0))
	require.NoError(t, ex.Choose("q1", 1))
	require.NoError(t, ex.Choose("q2", 0))
	require.NoError(t, ex.Choose("q3", 0))

	res, err := ex.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 4, res.Total)
	require.Len(t, res.Missed, 2)

	rec := s.Snapshot()
	require.Len(t, rec.Mistakes, 2)
	assert.Equal(t, "q3", rec.Mistakes[0].ID)
	assert.Equal(t, "q2", rec.Mistakes[1].ID)
	// Submitting does not complete the session yet.
	assert.Equal(t, 0, rec.CompletedSessions)

	assert.ErrorIs(t, ex.Choose("q2", 2), ErrSubmitted)
	_, err = ex.Submit(ctx)
	assert.ErrorIs(t, err, ErrSubmitted)

	clock = start.Add(90 * time.Second)
	sr, err := ex.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, sr.Accuracy)
	assert.Equal(t, 200, sr.XPAwarded)

	rec = s.Snapshot()
	assert.Equal(t, 1, rec.CompletedSessions)
	assert.Equal(t, 50, rec.CategoryScores[catalog.CategoryGrammar])
	assert.Equal(t, 4, rec.QuestionsAnswered)
	assert.Equal(t, 2, rec.TotalCorrect)

	require.Len(t, hist.entries, 1)
	assert.Equal(t, "grammar", hist.entries[0].Category)
	assert.Equal(t, 90, hist.entries[0].DurationSecs)
	assert.Equal(t, 200, hist.entries[0].XPAwarded)

	_, err = ex.Finish(ctx)
	assert.ErrorIs(t, err, ErrFinished)
	assert.Equal(t, 1, s.Snapshot().CompletedSessions)
}

func TestExam_HistoryFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	ex, err := NewExam(s, catalog.CategoryGrammar, questions(1), ExamOptions{History: &fakeHistory{err: errors.New("disk full")}})
	require.NoError(t, err)
	require.NoError(t, ex.Choose("q0", 0))
	_, err = ex.Submit(ctx)
	require.NoError(t, err)

	sr, err := ex.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, sr.Accuracy)
	assert.Equal(t, 1, s.Snapshot().CompletedSessions)
}

func TestReview_Attempt(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	q := questions(2)
	s.LogMistake(ctx, q[0].Missed())
	s.LogMistake(ctx, q[1].Missed())

	r := NewReview(s, nil)
	require.Len(t, r.Pending(), 2)

	ok, err := r.Attempt(ctx, "q1", 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, r.Pending(), 2)
	assert.Equal(t, 0, s.Snapshot().XP)

	ok, err = r.Attempt(ctx, "q1", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ReviewXP, s.Snapshot().XP)
	require.Len(t, r.Pending(), 1)
	assert.Equal(t, "q0", r.Pending()[0].ID)

	_, err = r.Attempt(ctx, "q1", 1)
	assert.ErrorIs(t, err, ErrUnknownMistake)
	_, err = r.Attempt(ctx, "q0", 9)
	assert.ErrorIs(t, err, ErrOptionRange)
}

// staleStore serves a snapshot taken before another caller changed the record.
type staleStore struct {
	*progress.Store
	stale progress.Record
}

func (s staleStore) Snapshot() progress.Record { return s.stale }

func TestReview_AttemptOnEntryResolvedElsewherePaysNothing(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	q := questions(1)
	s.LogMistake(ctx, q[0].Missed())

	r := NewReview(staleStore{Store: s, stale: s.Snapshot()}, nil)
	s.ResolveMistake(ctx, "q0")

	ok, err := r.Attempt(ctx, "q0", q[0].CorrectIndex)
	assert.ErrorIs(t, err, ErrUnknownMistake)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Snapshot().XP)
}
