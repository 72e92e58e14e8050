package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/router"
	"github.com/abhisek/acedrill/internal/screens/home"
	"github.com/abhisek/acedrill/internal/session"
)

func newModel(t *testing.T) (AppModel, *progress.Store) {
	t.Helper()
	p := progress.Open(context.Background(), progress.NewMemoryPersister(nil))
	pool := []catalog.Item{catalog.WordItem("Wan", "pale", ""), catalog.WordItem("Bevy", "group", "")}
	m := newAppModel(home.Deps{
		Progress: p,
		Trainer:  session.NewTrainer(p, pool, session.TrainerOptions{}),
		Sink:     session.NewRewards(p, nil),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(AppModel), p
}

func TestAppModel_HeaderShowsProgress(t *testing.T) {
	m, p := newModel(t)
	ctx := context.Background()
	p.AwardXP(ctx, 42)
	p.LogMistake(ctx, catalog.VocabularyMiss(catalog.WordItem("Wan", "pale", "")))

	content := m.render()
	assert.Contains(t, content, "AceDrill")
	assert.Contains(t, content, "★ 42 XP")
	assert.Contains(t, content, "✗ 1")
}

func TestAppModel_TooSmall(t *testing.T) {
	m, _ := newModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, updated.(AppModel).render(), "Terminal too small")
}

func TestAppModel_PushAndPop(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push := cmd()
	m.Update(push)
	assert.Equal(t, 2, m.router.Depth())
	assert.Contains(t, m.render(), "Flashcards")

	m.Update(router.PopScreenMsg{})
	assert.Equal(t, 1, m.router.Depth())
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
