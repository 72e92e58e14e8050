// Package practice runs category practice tests.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/contentgen"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/quiz"
	"github.com/abhisek/acedrill/internal/router"
	"github.com/abhisek/acedrill/internal/screen"
	"github.com/abhisek/acedrill/internal/store"
	"github.com/abhisek/acedrill/internal/ui/components"
	"github.com/abhisek/acedrill/internal/ui/layout"
	"github.com/abhisek/acedrill/internal/ui/theme"
)

type phase int

const (
	phasePick phase = iota
	phaseLoading
	phaseExam
	phaseReview
	phaseDone
)

type questionsLoadedMsg struct {
	Category  catalog.Category
	Questions []catalog.Question
	Err       error
}

type spinnerTickMsg time.Time

type finishedMsg struct {
	Result progress.SessionResult
	Err    error
}

// Store is the progress surface a practice test needs.
type Store interface {
	quiz.ExamStore
	Snapshot() progress.Record
}

// Deps wires the practice screen.
type Deps struct {
	Progress Store
	Source   contentgen.Source
	History  store.HistoryRepo
	Logger   *zap.Logger
	// Timeout bounds question loading. Zero means no limit.
	Timeout time.Duration
}

// PracticeScreen lets the learner pick a category and take a test in it.
type PracticeScreen struct {
	deps Deps

	phase    phase
	picker   components.Menu
	category catalog.Category
	cancel   context.CancelFunc
	frame    int

	exam    *quiz.Exam
	qs      []catalog.Question
	current int
	choice  components.MultiChoice
	result  quiz.Result
	summary progress.SessionResult
	notice  string
	errMsg  string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.Closer = (*PracticeScreen)(nil)

// New creates the practice screen at the category picker.
func New(deps Deps) *PracticeScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &PracticeScreen{deps: deps}
	s.picker = s.buildPicker()
	return s
}

func (s *PracticeScreen) buildPicker() components.Menu {
	rec := s.deps.Progress.Snapshot()
	var items []components.MenuItem
	for _, c := range catalog.AllCategories() {
		label := fmt.Sprintf("%-22s %2d questions", c.DisplayName(), c.QuestionCount())
		if score, ok := rec.CategoryScores[c]; ok {
			label += fmt.Sprintf("   last %d%%", score)
		}
		items = append(items, components.MenuItem{
			Label:  label,
			Action: func() tea.Cmd { return s.load(c) },
		})
	}
	return components.NewMenu(items)
}

func (s *PracticeScreen) Init() tea.Cmd {
	return nil
}

// Close cancels an in-flight question request. A submitted test that was
// not closed explicitly is archived so its result is kept.
func (s *PracticeScreen) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.phase == phaseReview && s.exam != nil {
		if _, err := s.exam.Finish(context.Background()); err != nil && !errors.Is(err, quiz.ErrFinished) {
			s.deps.Logger.Warn("archive practice test on close", zap.Error(err))
		}
	}
}

func (s *PracticeScreen) load(c catalog.Category) tea.Cmd {
	s.category = c
	s.phase = phaseLoading
	s.errMsg = ""
	s.frame = 0

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.deps.Timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.deps.Timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	s.cancel = cancel
	src := s.deps.Source

	fetch := func() tea.Msg {
		defer cancel()
		if src == nil {
			return questionsLoadedMsg{Category: c, Err: quiz.ErrNoQuestions}
		}
		qs, err := src.Questions(ctx, c, c.QuestionCount())
		return questionsLoadedMsg{Category: c, Questions: qs, Err: err}
	}
	return tea.Batch(fetch, spinnerTick())
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *PracticeScreen) Title() string {
	if s.phase == phasePick {
		return "Practice"
	}
	return "Practice · " + s.category.DisplayName()
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseExam:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "←→", Description: "Question"},
			{Key: "S", Description: "Submit"},
			{Key: "Esc", Description: "Abandon"},
		}
	case phaseReview:
		return []layout.KeyHint{
			{Key: "←→", Description: "Review"},
			{Key: "Enter", Description: "Archive & close"},
		}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Another test"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Category"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		if s.phase != phaseLoading {
			return s, nil
		}
		s.frame++
		return s, spinnerTick()

	case questionsLoadedMsg:
		return s.handleLoaded(msg)

	case finishedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.summary = msg.Result
		s.phase = phaseDone
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PracticeScreen) handleLoaded(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	if s.phase != phaseLoading || msg.Category != s.category {
		return s, nil
	}
	s.cancel = nil
	if msg.Err != nil {
		s.deps.Logger.Warn("load practice questions", zap.String("category", string(msg.Category)), zap.Error(msg.Err))
	}
	exam, err := quiz.NewExam(s.deps.Progress, msg.Category, msg.Questions, quiz.ExamOptions{
		History: s.deps.History,
		Logger:  s.deps.Logger,
	})
	if err != nil {
		s.phase = phasePick
		if errors.Is(err, quiz.ErrNoQuestions) {
			s.notice = fmt.Sprintf("No %s questions are available right now.", msg.Category.DisplayName())
		} else {
			s.notice = err.Error()
		}
		return s, nil
	}
	s.notice = ""
	s.exam = exam
	s.qs = exam.Questions()
	s.phase = phaseExam
	s.show(0)
	return s, nil
}

// show puts question i on screen, restoring any earlier choice.
func (s *PracticeScreen) show(i int) {
	s.current = i
	q := s.qs[i]
	s.choice = components.NewMultiChoice(q.Prompt, q.Options, q.CorrectIndex)
	if a, ok := s.exam.Answer(q.ID); ok {
		s.choice.Select(a)
	}
	s.choice.Reveal = s.phase == phaseReview
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
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
			if s.cancel != nil {
				s.cancel()
				s.cancel = nil
			}
			s.phase = phasePick
		}
		return s, nil

	case phaseExam:
		return s.handleExamKey(msg)

	case phaseReview:
		switch key {
		case "left", "h":
			if s.current > 0 {
				s.show(s.current - 1)
			}
		case "right", "l":
			if s.current < len(s.qs)-1 {
				s.show(s.current + 1)
			}
		case "enter", "esc":
			return s, s.finish()
		}
		return s, nil

	case phaseDone:
		switch key {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			s.reset()
		}
	}
	return s, nil
}

func (s *PracticeScreen) handleExamKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Abandoned tests leave no trace.
		s.reset()
		return s, nil
	case "left", "h":
		if s.current > 0 {
			s.show(s.current - 1)
		}
		return s, nil
	case "right", "l":
		if s.current < len(s.qs)-1 {
			s.show(s.current + 1)
		}
		return s, nil
	case "s":
		return s.submit()
	}

	before := s.choice.ChosenIndex
	s.choice, _ = s.choice.Update(msg)
	if s.choice.ChosenIndex != before || (s.choice.Submitted && msg.String() == "enter") {
		q := s.qs[s.current]
		if err := s.exam.Choose(q.ID, s.choice.ChosenIndex); err != nil {
			s.notice = err.Error()
			return s, nil
		}
		s.notice = ""
		if s.current < len(s.qs)-1 {
			s.show(s.current + 1)
		}
	}
	return s, nil
}

func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	res, err := s.exam.Submit(context.Background())
	if errors.Is(err, quiz.ErrIncomplete) {
		s.notice = fmt.Sprintf("Answer every question first (%d of %d done).", s.exam.Answered(), len(s.qs))
		return s, nil
	}
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.result = res
	s.notice = ""
	s.phase = phaseReview
	s.show(0)
	return s, nil
}

func (s *PracticeScreen) finish() tea.Cmd {
	exam := s.exam
	return func() tea.Msg {
		sr, err := exam.Finish(context.Background())
		return finishedMsg{Result: sr, Err: err}
	}
}

func (s *PracticeScreen) reset() {
	s.exam = nil
	s.qs = nil
	s.notice = ""
	s.errMsg = ""
	s.phase = phasePick
	s.picker = s.buildPicker()
}

func (s *PracticeScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.RenderError(width, s.errMsg)
	}
	cw := components.ContentWidth(width)

	switch s.phase {
	case phaseLoading:
		return components.RenderLoading(width,
			fmt.Sprintf("Preparing %s questions...", s.category.DisplayName()), s.frame)
	case phaseExam, phaseReview:
		return components.CabinetFrame(s.renderQuestion(cw), width, height)
	case phaseDone:
		return components.CabinetFrame(s.renderSummary(cw), width, height)
	}

	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("CHOOSE A TEST")
	parts := []string{title, s.picker.View()}
	if s.notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}
	return components.CabinetFrame(strings.Join(parts, "\n\n"), width, height)
}

func (s *PracticeScreen) renderQuestion(cw int) string {
	q := s.qs[s.current]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	head := fmt.Sprintf("Question %d of %d", s.current+1, len(s.qs))
	if s.phase == phaseExam {
		head += fmt.Sprintf("   answered %d", s.exam.Answered())
	} else {
		head += fmt.Sprintf("   score %d / %d", s.result.Score, s.result.Total)
	}
	if s.category == catalog.CategoryMock {
		head += "   · " + q.Category.DisplayName()
	}

	parts := []string{dim.Render(head)}
	if q.Passage != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Italic(true).Width(cw-4).Render(q.Passage))
	}
	parts = append(parts, lipgloss.NewStyle().Width(cw-4).Render(s.choice.View()))

	if s.phase == phaseReview && q.Explanation != "" {
		color := theme.Success
		if !s.choice.IsCorrect() {
			color = theme.Error
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(color).Width(cw-4).Render(q.Explanation))
	}
	if s.notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}
	return strings.Join(parts, "\n\n")
}

func (s *PracticeScreen) renderSummary(cw int) string {
	sr := s.summary
	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("TEST ARCHIVED")
	bar := components.NewProgressBar("Accuracy", float64(sr.Accuracy)/100, true, cw-4)
	lines := []string{
		title,
		fmt.Sprintf("%s: %d of %d correct", sr.Category.DisplayName(), sr.Score, sr.Total),
		bar.View(),
		fmt.Sprintf("Category score now %d%%", sr.CategoryScore),
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(fmt.Sprintf("+%d XP", sr.XPAwarded)),
	}
	if n := len(s.result.Missed); n > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).
			Render(fmt.Sprintf("%d missed question(s) added to the mistake log.", n)))
	}
	return components.ArcadeCard(strings.Join(lines, "\n\n"), cw)
}
