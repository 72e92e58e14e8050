// Package mistakes lets the learner retry logged mistakes.
package mistakes

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/quiz"
	"github.com/abhisek/acedrill/internal/router"
	"github.com/abhisek/acedrill/internal/screen"
	"github.com/abhisek/acedrill/internal/ui/components"
	"github.com/abhisek/acedrill/internal/ui/layout"
	"github.com/abhisek/acedrill/internal/ui/theme"
)

type outcome int

const (
	outcomeNone outcome = iota
	outcomeResolved
	outcomeMissed
)

// MistakeScreen walks the mistake registry, most recent first.
type MistakeScreen struct {
	review  *quiz.Review
	items   []catalog.MissedItem
	current int
	choice  components.MultiChoice
	last    outcome
	cleared int
	errMsg  string
}

var _ screen.Screen = (*MistakeScreen)(nil)
var _ screen.KeyHintProvider = (*MistakeScreen)(nil)

// New creates the mistake review screen.
func New(review *quiz.Review) *MistakeScreen {
	s := &MistakeScreen{review: review}
	s.refresh(0)
	return s
}

func (s *MistakeScreen) refresh(at int) {
	s.items = s.review.Pending()
	if at >= len(s.items) {
		at = len(s.items) - 1
	}
	if at < 0 {
		at = 0
	}
	s.current = at
	if len(s.items) > 0 {
		it := s.items[at]
		s.choice = components.NewMultiChoice(it.Prompt, it.Options, it.CorrectIndex)
	}
}

func (s *MistakeScreen) Init() tea.Cmd {
	return nil
}

func (s *MistakeScreen) Title() string {
	return "Mistake Log"
}

func (s *MistakeScreen) KeyHints() []layout.KeyHint {
	if s.last != outcomeNone {
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "←→", Description: "Browse"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MistakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()
	if key == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.last != outcomeNone {
		// Feedback shown; any key moves on.
		at := s.current
		if s.last == outcomeMissed {
			at++
			if at >= len(s.items) {
				at = 0
			}
		}
		s.last = outcomeNone
		s.refresh(at)
		return s, nil
	}
	if len(s.items) == 0 {
		return s, nil
	}

	switch key {
	case "left", "h":
		if s.current > 0 {
			s.refresh(s.current - 1)
		}
		return s, nil
	case "right", "l":
		if s.current < len(s.items)-1 {
			s.refresh(s.current + 1)
		}
		return s, nil
	}

	before := s.choice.ChosenIndex
	s.choice, _ = s.choice.Update(msg)
	if !s.choice.Submitted || (s.choice.ChosenIndex == before && key != "enter") {
		return s, nil
	}

	ok, err := s.review.Attempt(context.Background(), s.items[s.current].ID, s.choice.ChosenIndex)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.choice.Reveal = true
	if ok {
		s.last = outcomeResolved
		s.cleared++
	} else {
		s.last = outcomeMissed
	}
	return s, nil
}

func (s *MistakeScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.RenderError(width, s.errMsg)
	}
	if len(s.items) == 0 && s.last == outcomeNone {
		msg := "No mistakes logged. Nice work!"
		if s.cleared > 0 {
			msg = fmt.Sprintf("Log cleared! You fixed %d mistake(s) this visit.", s.cleared)
		}
		return components.RenderEmpty(width, msg)
	}

	cw := components.ContentWidth(width)
	it := s.items[s.current]

	head := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Mistake %d of %d   · %s", s.current+1, len(s.items), it.Category.DisplayName()))
	parts := []string{head, lipgloss.NewStyle().Width(cw - 4).Render(s.choice.View())}

	switch s.last {
	case outcomeResolved:
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("✓ Fixed! +%d XP, removed from the log.", quiz.ReviewXP)))
	case outcomeMissed:
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Error).Bold(true).
			Render("✗ Not yet. It stays in the log."))
	}
	if s.last != outcomeNone && it.Explanation != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw-4).Render(it.Explanation))
	}
	return components.CabinetFrame(strings.Join(parts, "\n\n"), width, height)
}
