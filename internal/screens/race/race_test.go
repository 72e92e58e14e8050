package race

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/race"
	"github.com/abhisek/acedrill/internal/session"
	"github.com/abhisek/acedrill/internal/session/sessiontest"
)

func words() []catalog.Item {
	return []catalog.Item{
		catalog.WordItem("Wan", "pale", ""),
		catalog.WordItem("Bevy", "group of something", ""),
		catalog.WordItem("Lore", "traditional knowledge", ""),
		catalog.WordItem("Mirth", "amusement", ""),
	}
}

func setup(t *testing.T) (*RaceScreen, *progress.Store, *sessiontest.Scheduler) {
	t.Helper()
	p := progress.Open(context.Background(), progress.NewMemoryPersister(nil))
	tr := session.NewTrainer(p, words(), session.TrainerOptions{Rand: rand.New(rand.NewPCG(5, 6))})
	sched := sessiontest.NewScheduler(t)
	s := New(tr, session.NewRewards(p, nil), Options{
		QuestionSeconds: 15,
		FeedbackDelay:   time.Second,
		Scheduler:       sched,
	})
	s.Update(s.Init()())
	require.NotNil(t, s.engine)
	t.Cleanup(s.Close)
	return s, p, sched
}

// answerIndex finds the option that matches the current prompt.
func answerIndex(t *testing.T, st race.State) int {
	t.Helper()
	for _, it := range words() {
		if it.Prompt != st.Question.Prompt {
			continue
		}
		for i, o := range st.Question.Options {
			if o == it.Answer {
				return i
			}
		}
	}
	t.Fatalf("no answer for %q", st.Question.Prompt)
	return -1
}

func digit(i int) tea.KeyPressMsg {
	r := rune('1' + i)
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestRace_StartAndAnswerFast(t *testing.T) {
	s, p, _ := setup(t)
	assert.Contains(t, s.View(100, 30), "Press Enter to start")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	st := s.engine.State()
	require.Equal(t, race.PhaseRunning, st.Phase)

	s.Update(digit(answerIndex(t, st)))
	st = s.engine.State()
	assert.Equal(t, race.FeedbackCorrect, st.Feedback)
	assert.Equal(t, session.RaceXP(1.8), p.Snapshot().XP)
	assert.Contains(t, s.View(100, 30), "Correct!")
}

func TestRace_TimeoutLogsMistake(t *testing.T) {
	s, p, sched := setup(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	sched.Advance(15 * time.Second)
	st := s.engine.State()
	assert.Equal(t, race.FeedbackTimeout, st.Feedback)
	require.Len(t, p.Snapshot().Mistakes, 1)

	sched.Advance(time.Second)
	st = s.engine.State()
	assert.Equal(t, race.PhaseRunning, st.Phase)
	assert.Equal(t, 1, st.Index)
}

func TestRace_CloseStopsClock(t *testing.T) {
	s, _, sched := setup(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.Equal(t, 1, sched.Pending())

	s.Close()
	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, race.PhaseIdle, s.engine.State().Phase)
}

func TestRace_NumberOutOfRangeIgnored(t *testing.T) {
	s, p, _ := setup(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(digit(8))
	assert.Equal(t, race.PhaseRunning, s.engine.State().Phase)
	assert.Equal(t, 0, p.Snapshot().QuestionsAnswered)
}
