// Package grammar shows generated grammar lessons and their quick checks.
package grammar

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/lessons"
	"github.com/abhisek/acedrill/internal/router"
	"github.com/abhisek/acedrill/internal/screen"
	"github.com/abhisek/acedrill/internal/ui/components"
	"github.com/abhisek/acedrill/internal/ui/layout"
	"github.com/abhisek/acedrill/internal/ui/theme"
)

type phase int

const (
	phasePick phase = iota
	phaseLoading
	phaseLesson
)

type lessonLoadedMsg struct {
	Topic  string
	Lesson *lessons.Lesson
	Err    error
}

type spinnerTickMsg time.Time

// Generator produces a lesson for a topic.
type Generator interface {
	Generate(ctx context.Context, topic string) (*lessons.Lesson, error)
}

// Deps wires the lessons screen.
type Deps struct {
	Generator Generator
	Progress  lessons.Store
	Logger    *zap.Logger
	// Timeout bounds lesson loading. Zero means no limit.
	Timeout time.Duration
}

// LessonScreen lists grammar topics and teaches the chosen one.
type LessonScreen struct {
	deps Deps

	phase  phase
	picker components.Menu
	topic  string
	cancel context.CancelFunc
	frame  int

	lesson  *lessons.Lesson
	choice  components.MultiChoice
	graded  bool
	correct bool
	notice  string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.Closer = (*LessonScreen)(nil)

func New(deps Deps) *LessonScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &LessonScreen{deps: deps}
	items := make([]components.MenuItem, 0, len(lessons.Topics))
	for _, topic := range lessons.Topics {
		items = append(items, components.MenuItem{
			Label:  topic,
			Action: func() tea.Cmd { return s.load(topic) },
		})
	}
	s.picker = components.NewMenu(items)
	return s
}

func (s *LessonScreen) Init() tea.Cmd { return nil }

// Close cancels an in-flight lesson request.
func (s *LessonScreen) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *LessonScreen) load(topic string) tea.Cmd {
	s.topic = topic
	s.phase = phaseLoading
	s.notice = ""
	s.frame = 0

	ctx, cancel := context.WithCancel(context.Background())
	if s.deps.Timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.deps.Timeout)
	}
	s.cancel = cancel
	gen := s.deps.Generator

	fetch := func() tea.Msg {
		defer cancel()
		l, err := gen.Generate(ctx, topic)
		return lessonLoadedMsg{Topic: topic, Lesson: l, Err: err}
	}
	return tea.Batch(fetch, spinnerTick())
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *LessonScreen) Title() string {
	if s.phase == phasePick {
		return "Grammar"
	}
	return "Grammar · " + s.topic
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseLesson:
		if s.graded {
			return []layout.KeyHint{{Key: "Esc", Description: "Topics"}}
		}
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "Esc", Description: "Topics"},
		}
	case phaseLoading:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Topic"},
			{Key: "Enter", Description: "Learn"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		if s.phase != phaseLoading {
			return s, nil
		}
		s.frame++
		return s, spinnerTick()

	case lessonLoadedMsg:
		if s.phase != phaseLoading || msg.Topic != s.topic {
			return s, nil
		}
		s.cancel = nil
		if msg.Err != nil {
			s.deps.Logger.Warn("load grammar lesson", zap.String("topic", msg.Topic), zap.Error(msg.Err))
			s.phase = phasePick
			s.notice = "That lesson could not be loaded. Try again or pick another topic."
			return s, nil
		}
		s.lesson = msg.Lesson
		q := msg.Lesson.QuickCheck
		s.choice = components.NewMultiChoice(q.Prompt, q.Options, q.CorrectIndex)
		s.graded = false
		s.phase = phaseLesson
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.phase {
	case phasePick:
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.picker, cmd = s.picker.Update(msg)
		return s, cmd

	case phaseLoading:
		if key == "esc" {
			s.Close()
			s.phase = phasePick
		}
		return s, nil

	case phaseLesson:
		if key == "esc" {
			s.lesson = nil
			s.phase = phasePick
			return s, nil
		}
		if s.graded {
			return s, nil
		}
		s.choice, _ = s.choice.Update(msg)
		if s.choice.Submitted {
			s.grade()
		}
	}
	return s, nil
}

// grade scores the quick check once and reveals the answer.
func (s *LessonScreen) grade() {
	correct, err := lessons.Grade(context.Background(), s.deps.Progress, s.lesson, s.choice.ChosenIndex)
	if err != nil {
		s.notice = err.Error()
		return
	}
	s.graded = true
	s.correct = correct
	s.choice.Reveal = true
}

func (s *LessonScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	switch s.phase {
	case phaseLoading:
		return components.RenderLoading(width, "Writing your lesson...", s.frame)
	case phaseLesson:
		return components.CabinetFrame(s.renderLesson(cw), width, height)
	}

	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("PICK A TOPIC")
	parts := []string{title, s.picker.View()}
	if s.notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}
	return components.CabinetFrame(strings.Join(parts, "\n\n"), width, height)
}

func (s *LessonScreen) renderLesson(cw int) string {
	l := s.lesson
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 4)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Width(cw - 4)

	parts := []string{
		lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(strings.ToUpper(l.Topic)),
		body.Render(l.Explanation),
	}
	for _, ex := range l.Examples {
		parts = append(parts, dim.Render("• "+ex))
	}
	parts = append(parts,
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("QUICK CHECK"),
		lipgloss.NewStyle().Width(cw-4).Render(s.choice.View()))

	if s.graded {
		verdict := lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("✓ Correct")
		if !s.correct {
			verdict = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("✗ Not quite, added to your mistake log")
		}
		xp := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(fmt.Sprintf("+%d XP", lessons.QuickCheckXP))
		parts = append(parts, verdict+"   "+xp)
		if l.QuickCheck.Explanation != "" {
			parts = append(parts, body.Render(l.QuickCheck.Explanation))
		}
	}
	if s.notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}
	return strings.Join(parts, "\n\n")
}
