package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/store"
)

type fakeRepo struct {
	entries []store.HistoryEntry
	err     error
	limit   int
}

func (f *fakeRepo) Append(context.Context, store.HistoryEntry) error { return nil }
func (f *fakeRepo) Recent(_ context.Context, opts store.QueryOpts) ([]store.HistoryEntry, error) {
	f.limit = opts.Limit
	return f.entries, f.err
}
func (f *fakeRepo) Prune(context.Context, int) error { return nil }

func TestHistory_ListAndExpand(t *testing.T) {
	repo := &fakeRepo{entries: []store.HistoryEntry{
		{Category: "grammar", Score: 8, Total: 10, Accuracy: 80, XPAwarded: 290, DurationSecs: 125, FinishedAt: time.Now()},
		{Category: "math", Score: 3, Total: 10, Accuracy: 30, XPAwarded: 140, FinishedAt: time.Now()},
	}}
	s := New(repo)
	s.Update(s.Init()())
	assert.Equal(t, pageSize, repo.limit)

	view := s.View(100, 30)
	assert.Contains(t, view, "Grammar & Writing")
	assert.Contains(t, view, "Mathematics")
	assert.NotContains(t, view, "took 2:05")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(100, 30), "took 2:05   +290 XP")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected)
}

func TestHistory_Empty(t *testing.T) {
	s := New(&fakeRepo{})
	assert.Contains(t, s.View(100, 30), "Loading")
	s.Update(s.Init()())
	assert.Contains(t, s.View(100, 30), "No practice tests yet")
}

func TestHistory_Error(t *testing.T) {
	s := New(&fakeRepo{err: errors.New("db locked")})
	s.Update(s.Init()())
	require.True(t, s.loaded)
	assert.Contains(t, s.View(100, 30), "db locked")
}
