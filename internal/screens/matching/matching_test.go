package matching

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/matching"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/session"
	"github.com/abhisek/acedrill/internal/session/sessiontest"
)

func words() []catalog.Item {
	return []catalog.Item{
		catalog.WordItem("Wan", "pale", ""),
		catalog.WordItem("Bevy", "group of something", ""),
	}
}

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }
func down() tea.KeyPressMsg  { return tea.KeyPressMsg{Code: tea.KeyDown} }

func setup(t *testing.T) (*MatchingScreen, *progress.Store, *sessiontest.Scheduler) {
	t.Helper()
	p := progress.Open(context.Background(), progress.NewMemoryPersister(nil))
	tr := session.NewTrainer(p, words(), session.TrainerOptions{Rand: rand.New(rand.NewPCG(3, 4))})
	sched := sessiontest.NewScheduler(t)
	s := New(tr, session.NewRewards(p, nil), Options{ErrorDelay: 500 * time.Millisecond, Scheduler: sched})
	s.Update(s.Init()())
	require.NotNil(t, s.engine)
	t.Cleanup(s.Close)
	return s, p, sched
}

// pick moves the cursor to key in the active column and selects it.
func pick(t *testing.T, s *MatchingScreen, key string) {
	t.Helper()
	col := s.column(s.engine.State())
	s.cursor[s.side] = 0
	for i, c := range col {
		if c.Key == key {
			for j := 0; j < i; j++ {
				s.Update(down())
			}
			s.Update(enter())
			return
		}
	}
	t.Fatalf("key %q not on board", key)
}

func TestMatching_PairAwardsXP(t *testing.T) {
	s, p, _ := setup(t)

	pick(t, s, "Wan")
	assert.Equal(t, matching.Armed, s.last)
	assert.Equal(t, matching.SideAnswer, s.side)
	pick(t, s, "Wan")
	assert.Equal(t, matching.Matched, s.last)
	assert.Equal(t, session.MatchXP, p.Snapshot().XP)
	assert.Contains(t, s.View(100, 30), "Match!")

	s.side = matching.SidePrompt
	pick(t, s, "Bevy")
	pick(t, s, "Bevy")
	assert.True(t, s.engine.Complete())
	assert.Equal(t, 2*session.MatchXP+session.BatchClearedXP, p.Snapshot().XP)
	assert.Contains(t, s.View(100, 30), "BATCH CLEARED")
}

func TestMatching_MismatchClearsAfterDelay(t *testing.T) {
	s, p, sched := setup(t)

	pick(t, s, "Wan")
	pick(t, s, "Bevy")
	assert.Equal(t, matching.Mismatched, s.last)
	assert.True(t, s.engine.State().ErrorOn)
	require.Len(t, p.Snapshot().Mistakes, 1)
	assert.Equal(t, "vocab:Wan", p.Snapshot().Mistakes[0].ID)

	// The watcher fires once the highlight clears.
	cmd := s.watch()
	sched.Advance(500 * time.Millisecond)
	msg := cmd()
	assert.Equal(t, boardChangedMsg{gen: s.gen}, msg)
	assert.False(t, s.engine.State().ErrorOn)
}

func TestMatching_CloseReleasesWatcher(t *testing.T) {
	s, _, sched := setup(t)
	pick(t, s, "Wan")
	pick(t, s, "Bevy")

	// Drain the pending signal, then close before the timer fires.
	<-s.engine.Changes()
	cmd := s.watch()
	s.Close()
	assert.Nil(t, cmd())
	assert.Equal(t, 0, sched.Pending())
}

func TestMatching_StaleSignalIgnored(t *testing.T) {
	s, _, _ := setup(t)
	_, cmd := s.Update(boardChangedMsg{gen: s.gen - 1})
	assert.Nil(t, cmd)
}
