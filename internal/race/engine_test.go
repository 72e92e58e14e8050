package race

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/session"
	"github.com/abhisek/acedrill/internal/session/sessiontest"
)

func raceItems() []catalog.Item {
	return []catalog.Item{
		catalog.WordItem("Wan", "pale", ""),
		catalog.WordItem("Bevy", "group of something", ""),
		catalog.WordItem("Lore", "traditional knowledge", ""),
		catalog.WordItem("Gaunt", "thin", ""),
		catalog.WordItem("Vex", "to trouble or irritate", ""),
	}
}

type harness struct {
	engine *Engine
	sched  *sessiontest.Scheduler
	events *session.Recorder
}

func newHarness(t *testing.T, items []catalog.Item, sinks ...session.Sink) harness {
	t.Helper()
	sched := sessiontest.NewScheduler(t)
	rec := &session.Recorder{}
	e := New(items, Options{
		Scheduler: sched,
		Sink:      session.Fanout(append([]session.Sink{rec}, sinks...)...),
		Rand:      rand.New(rand.NewPCG(3, 4)),
	})
	return harness{engine: e, sched: sched, events: rec}
}

func TestSpeedBonus(t *testing.T) {
	tests := []struct {
		remaining int
		want      float64
	}{
		{15, 1.8}, {11, 1.8}, {10, 1.3}, {6, 1.3}, {5, 1.0}, {0, 1.0},
	}
	for _, tt := range tests {
		if got := SpeedBonus(tt.remaining); got != tt.want {
			t.Errorf("SpeedBonus(%d) = %v, want %v", tt.remaining, got, tt.want)
		}
	}
}

func TestStart_BuildsQuestion(t *testing.T) {
	h := newHarness(t, raceItems())
	require.NoError(t, h.engine.Start())

	st := h.engine.State()
	assert.Equal(t, PhaseRunning, st.Phase)
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, DefaultQuestionSeconds, st.Remaining)
	require.Len(t, st.Question.Options, 1+DefaultDistractors)

	seen := map[string]bool{}
	for _, o := range st.Question.Options {
		assert.False(t, seen[o], "duplicate option %q", o)
		seen[o] = true
	}
	assert.True(t, seen[raceItems()[0].Answer], "correct answer must be offered")
	assert.Equal(t, raceItems()[0].Prompt, st.Question.Prompt)
	assert.Equal(t, 1, h.sched.Pending())

	assert.ErrorIs(t, h.engine.Start(), ErrRunning)
}

func TestStart_EmptyBatch(t *testing.T) {
	h := newHarness(t, nil)
	assert.ErrorIs(t, h.engine.Start(), session.ErrEmptyPool)
	assert.Equal(t, PhaseIdle, h.engine.State().Phase)
}

func TestCountdownTicks(t *testing.T) {
	h := newHarness(t, raceItems())
	require.NoError(t, h.engine.Start())
	h.sched.Advance(4 * time.Second)
	assert.Equal(t, 11, h.engine.State().Remaining)
	assert.Equal(t, 1, h.sched.Pending(), "only one timer may be alive")
}

func TestCorrectAnswer_ScoresWithSpeedBonus(t *testing.T) {
	h := newHarness(t, raceItems())
	require.NoError(t, h.engine.Start())
	h.sched.Advance(2 * time.Second) // 13s left

	require.True(t, h.engine.Answer("Wan"))
	st := h.engine.State()
	assert.Equal(t, PhaseFeedback, st.Phase)
	assert.Equal(t, FeedbackCorrect, st.Feedback)
	assert.InDelta(t, 100.0/5*1.8, st.Progress, 1e-9)
	assert.Equal(t, 1, h.sched.Pending())

	events := h.events.Events()
	require.Len(t, events, 1)
	ev := events[0].(session.RaceAnswered)
	assert.True(t, ev.Correct)
	assert.Equal(t, 1.8, ev.Bonus)
	assert.Equal(t, 13, ev.Remaining)

	assert.False(t, h.engine.Answer("Wan"), "answers during feedback are ignored")

	h.sched.Advance(DefaultFeedbackDelay)
	st = h.engine.State()
	assert.Equal(t, PhaseRunning, st.Phase)
	assert.Equal(t, 1, st.Index)
	assert.Equal(t, DefaultQuestionSeconds, st.Remaining)
	assert.Equal(t, FeedbackNone, st.Feedback)
}

func TestProgressCappedAt100(t *testing.T) {
	h := newHarness(t, raceItems()[:1])
	require.NoError(t, h.engine.Start())
	require.True(t, h.engine.Answer("Wan"))
	assert.Equal(t, 100.0, h.engine.State().Progress)
}

func TestTimeout_SameEffectAsWrongAnswer(t *testing.T) {
	ctx := context.Background()

	wrongStore := progress.Open(ctx, progress.NewMemoryPersister(nil))
	wrong := newHarness(t, raceItems(), session.NewRewards(wrongStore, nil))
	require.NoError(t, wrong.engine.Start())
	require.True(t, wrong.engine.Answer("Bevy"))
	wrong.sched.Advance(DefaultFeedbackDelay)

	timeoutStore := progress.Open(ctx, progress.NewMemoryPersister(nil))
	timeout := newHarness(t, raceItems(), session.NewRewards(timeoutStore, nil))
	require.NoError(t, timeout.engine.Start())
	timeout.sched.Advance(DefaultQuestionSeconds * time.Second)

	st := timeout.engine.State()
	assert.Equal(t, PhaseFeedback, st.Phase)
	assert.Equal(t, FeedbackTimeout, st.Feedback)
	assert.Equal(t, 0, st.Remaining)
	assert.False(t, timeout.engine.Answer("Wan"), "answer after timeout is a no-op")
	timeout.sched.Advance(DefaultFeedbackDelay)

	ws, ts := wrong.engine.State(), timeout.engine.State()
	assert.Equal(t, ws.Index, ts.Index)
	assert.Equal(t, 1, ts.Index)
	assert.Equal(t, 0.0, ts.Progress)
	assert.Equal(t, ws.Progress, ts.Progress)

	wr, tr := wrongStore.Snapshot(), timeoutStore.Snapshot()
	assert.Equal(t, 0, tr.XP)
	assert.Equal(t, wr.XP, tr.XP)
	assert.Equal(t, wr.QuestionsAnswered, tr.QuestionsAnswered)
	assert.Equal(t, wr.TotalCorrect, tr.TotalCorrect)
	require.Len(t, tr.Mistakes, 1)
	assert.Equal(t, wr.Mistakes, tr.Mistakes)
	assert.Equal(t, "vocab:Wan", tr.Mistakes[0].ID)

	require.Len(t, timeout.events.Events(), 1)
	assert.True(t, timeout.events.Events()[0].(session.RaceAnswered).TimedOut)
}

func TestFinish(t *testing.T) {
	items := raceItems()[:2]
	h := newHarness(t, items)
	require.NoError(t, h.engine.Start())
	require.True(t, h.engine.Answer("Wan"))
	h.sched.Advance(DefaultFeedbackDelay)
	require.True(t, h.engine.Answer("wrong"))
	h.sched.Advance(DefaultFeedbackDelay)

	st := h.engine.State()
	assert.Equal(t, PhaseFinished, st.Phase)
	assert.Equal(t, 1, st.Correct)
	assert.Equal(t, 0, h.sched.Pending())

	events := h.events.Events()
	require.Len(t, events, 3)
	assert.Equal(t, session.RaceFinished{Correct: 1, Total: 2}, events[2])

	// Finished races can be restarted.
	require.NoError(t, h.engine.Start())
	assert.Equal(t, PhaseRunning, h.engine.State().Phase)
	assert.Equal(t, 0.0, h.engine.State().Progress)
}

func TestStop_CancelsTimersInEveryPhase(t *testing.T) {
	h := newHarness(t, raceItems())
	require.NoError(t, h.engine.Start())
	h.engine.Stop()
	assert.Equal(t, 0, h.sched.Pending())
	assert.Equal(t, PhaseIdle, h.engine.State().Phase)

	require.NoError(t, h.engine.Start())
	require.True(t, h.engine.Answer("Wan"))
	h.engine.Stop()
	assert.Equal(t, 0, h.sched.Pending())

	h.sched.Advance(time.Minute)
	st := h.engine.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 0, st.Index)
	assert.Len(t, h.events.Events(), 1, "no timer may fire after Stop")
}

// leakyScheduler hands out timers whose Stop does nothing, standing in for a
// real timer whose callback has already started when Stop is called.
type leakyScheduler struct {
	*sessiontest.Scheduler
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (l leakyScheduler) AfterFunc(d time.Duration, f func()) session.Timer {
	l.Scheduler.AfterFunc(d, f)
	return leakyTimer{}
}

func TestStaleCallbacksAreNoOps(t *testing.T) {
	sched := leakyScheduler{sessiontest.NewScheduler(t)}
	rec := &session.Recorder{}
	e := New(raceItems(), Options{Scheduler: sched, Sink: rec, Rand: rand.New(rand.NewPCG(5, 6))})

	require.NoError(t, e.Start())
	require.True(t, e.Answer("Wan"))
	// The first tick timer is still pending and fires alongside the feedback timer.
	sched.Advance(time.Second)
	st := e.State()
	assert.Equal(t, PhaseRunning, st.Phase)
	assert.Equal(t, 1, st.Index)
	assert.Equal(t, DefaultQuestionSeconds, st.Remaining)

	// Stop, then let every stale timer fire: the race stays idle.
	e.Stop()
	sched.Advance(time.Minute)
	assert.Equal(t, PhaseIdle, e.State().Phase)
	assert.Len(t, rec.Events(), 1)
}

func TestStart_DistractorsNeverRepeatAnswerText(t *testing.T) {
	items := []catalog.Item{
		catalog.WordItem("Wan", "pale", ""),
		catalog.WordItem("Pallid", "pale", ""),
		catalog.WordItem("Ashen", "pale", ""),
		catalog.WordItem("Bevy", "group of something", ""),
		catalog.WordItem("Lore", "traditional knowledge", ""),
	}
	h := newHarness(t, items)
	require.NoError(t, h.engine.Start())

	opts := h.engine.State().Question.Options
	assert.ElementsMatch(t, []string{"pale", "group of something", "traditional knowledge"}, opts)
}
