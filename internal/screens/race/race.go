// Package race renders the timed multiple-choice race over the batch.
package race

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/race"
	"github.com/abhisek/acedrill/internal/router"
	"github.com/abhisek/acedrill/internal/screen"
	"github.com/abhisek/acedrill/internal/session"
	"github.com/abhisek/acedrill/internal/ui/components"
	"github.com/abhisek/acedrill/internal/ui/layout"
	"github.com/abhisek/acedrill/internal/ui/theme"
)

type batchLoadedMsg struct {
	Items []catalog.Item
	Err   error
}

type raceChangedMsg struct {
	gen int
}

// Options configures the race clock.
type Options struct {
	QuestionSeconds int
	FeedbackDelay   time.Duration
	Scheduler       session.Scheduler
}

// RaceScreen hosts a race.Engine over the current batch.
type RaceScreen struct {
	trainer *session.Trainer
	sink    session.Sink
	opts    Options

	engine *race.Engine
	done   chan struct{}
	gen    int

	cursor int
	errMsg string
	loaded bool
}

var _ screen.Screen = (*RaceScreen)(nil)
var _ screen.KeyHintProvider = (*RaceScreen)(nil)
var _ screen.Closer = (*RaceScreen)(nil)

// New creates a race screen. Answers go to sink.
func New(trainer *session.Trainer, sink session.Sink, opts Options) *RaceScreen {
	return &RaceScreen{trainer: trainer, sink: sink, opts: opts}
}

func (s *RaceScreen) Init() tea.Cmd {
	if s.loaded {
		return s.watch()
	}
	return func() tea.Msg {
		items, err := s.trainer.EnsureBatch(context.Background())
		return batchLoadedMsg{Items: items, Err: err}
	}
}

func (s *RaceScreen) watch() tea.Cmd {
	if s.engine == nil || s.done == nil {
		return nil
	}
	return screen.Watch(s.engine.Changes(), s.done, raceChangedMsg{gen: s.gen})
}

// Close cancels the race clock and releases the watcher.
func (s *RaceScreen) Close() {
	if s.engine != nil {
		s.engine.Stop()
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

func (s *RaceScreen) Title() string {
	return "Speed Race"
}

func (s *RaceScreen) KeyHints() []layout.KeyHint {
	if s.engine == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	switch s.engine.State().Phase {
	case race.PhaseRunning:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Pick"},
			{Key: "Esc", Description: "Quit race"},
		}
	case race.PhaseFeedback:
		return []layout.KeyHint{{Key: "Esc", Description: "Quit race"}}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *RaceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case batchLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.Close()
		s.engine = race.New(msg.Items, race.Options{
			QuestionSeconds: s.opts.QuestionSeconds,
			FeedbackDelay:   s.opts.FeedbackDelay,
			Scheduler:       s.opts.Scheduler,
			Sink:            s.sink,
			Rand:            s.trainer.Rand(),
		})
		s.done = make(chan struct{})
		s.gen++
		return s, s.watch()

	case raceChangedMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		return s, s.watch()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *RaceScreen) questionSeconds() int {
	if s.opts.QuestionSeconds > 0 {
		return s.opts.QuestionSeconds
	}
	return race.DefaultQuestionSeconds
}

func (s *RaceScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.engine == nil {
		return s, nil
	}

	st := s.engine.State()
	switch st.Phase {
	case race.PhaseIdle, race.PhaseFinished:
		if key == "enter" || key == "space" {
			if err := s.engine.Start(); err != nil {
				s.errMsg = err.Error()
			}
			s.cursor = 0
		}
	case race.PhaseRunning:
		opts := st.Question.Options
		switch key {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(opts)-1 {
				s.cursor++
			}
		case "enter", "space":
			if s.cursor < len(opts) {
				s.answer(opts[s.cursor])
			}
		default:
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(opts) {
				s.cursor = n - 1
				s.answer(opts[n-1])
			}
		}
	}
	return s, nil
}

func (s *RaceScreen) answer(choice string) {
	s.engine.Answer(choice)
	s.cursor = 0
}

func (s *RaceScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.RenderError(width, s.errMsg)
	}
	if s.engine == nil {
		return components.RenderLoading(width, "Warming up...", 0)
	}

	st := s.engine.State()
	cw := components.ContentWidth(width)

	track := components.NewProgressBar("🏁", st.Progress/100, true, cw)
	track.Color = theme.ArcadeYellow

	var body string
	switch st.Phase {
	case race.PhaseIdle:
		body = components.ArcadeCard(fmt.Sprintf(
			"%d questions, %d seconds each.\nFaster answers move you further.\n\nPress Enter to start.",
			st.Total, s.questionSeconds()), cw)
	case race.PhaseFinished:
		body = components.ArcadeCard(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
			Render(fmt.Sprintf("FINISH! %d of %d correct", st.Correct, st.Total))+
			"\n\nPress Enter to race again.", cw)
	default:
		body = s.renderQuestion(st, cw)
	}

	content := strings.Join([]string{track.View(), body}, "\n\n")
	return components.CabinetFrame(content, width, height)
}

func (s *RaceScreen) renderQuestion(st race.State, cw int) string {
	clock := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	if st.Remaining <= 5 {
		clock = clock.Foreground(theme.Error)
	}
	header := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d   ", st.Index+1, st.Total)) +
		clock.Render(fmt.Sprintf("⏱ %ds", st.Remaining))

	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 6).Render(st.Question.Prompt)

	var opts strings.Builder
	for i, o := range st.Question.Options {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case st.Phase == race.PhaseFeedback && o == st.Answer:
			style = style.Foreground(theme.Success).Bold(true)
		case st.Phase == race.PhaseFeedback && o == st.LastChoice:
			style = style.Foreground(theme.Error).Bold(true)
		case st.Phase == race.PhaseRunning && i == s.cursor:
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		opts.WriteString(style.Render(fmt.Sprintf("%s%d) %s", prefix, i+1, o)) + "\n")
	}

	var feedback string
	switch st.Feedback {
	case race.FeedbackCorrect:
		bonus := race.SpeedBonus(st.Remaining)
		feedback = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("✓ Correct! ×%.1f  +%d XP", bonus, session.RaceXP(bonus)))
	case race.FeedbackWrong:
		feedback = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).
			Render("✗ It was " + st.Answer)
	case race.FeedbackTimeout:
		feedback = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("⏱ Time's up! It was " + st.Answer)
	}

	return components.ArcadeCard(strings.Join([]string{header, prompt, opts.String(), feedback}, "\n\n"), cw)
}
