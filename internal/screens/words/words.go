// Package words lists the study pool with live search.
package words

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/mastery"
	"github.com/abhisek/acedrill/internal/router"
	"github.com/abhisek/acedrill/internal/screen"
	"github.com/abhisek/acedrill/internal/ui/components"
	"github.com/abhisek/acedrill/internal/ui/layout"
	"github.com/abhisek/acedrill/internal/ui/theme"
)

// WordScreen shows every study item with its mastery badge.
type WordScreen struct {
	pool     []catalog.Item
	ledger   mastery.Ledger
	input    components.TextInput
	filtered []catalog.Item
	selected int
	offset   int
}

var _ screen.Screen = (*WordScreen)(nil)
var _ screen.KeyHintProvider = (*WordScreen)(nil)

// New creates the word list over pool, badged from ledger.
func New(pool []catalog.Item, ledger mastery.Ledger) *WordScreen {
	sorted := append([]catalog.Item(nil), pool...)
	catalog.SortItems(sorted)
	return &WordScreen{
		pool:     sorted,
		ledger:   ledger,
		input:    components.NewTextInput("search words or definitions", 40),
		filtered: sorted,
	}
}

func (s *WordScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *WordScreen) Title() string {
	return "Word List"
}

func (s *WordScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "type", Description: "Search"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WordScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down":
			if s.selected < len(s.filtered)-1 {
				s.selected++
			}
			return s, nil
		}
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if q := s.input.Value(); q != before {
		s.filtered = catalog.SearchItems(s.pool, q)
		s.selected = 0
		s.offset = 0
	}
	return s, cmd
}

func (s *WordScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(s.input.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d of %d words   %d mastered", len(s.filtered), len(s.pool), len(s.ledger.MasteredKeys()))))
	b.WriteString("\n\n")

	if len(s.filtered) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("No words match."))
		return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
	}

	// Rows left after the search box, counter and the detail pane.
	rows := height - 12
	if rows < 3 {
		rows = 3
	}
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+rows {
		s.offset = s.selected - rows + 1
	}
	end := s.offset + rows
	if end > len(s.filtered) {
		end = len(s.filtered)
	}

	wordCol := 18
	defWidth := width - wordCol - 12
	for i := s.offset; i < end; i++ {
		it := s.filtered[i]
		score := s.ledger.Score(it.Key)
		line := fmt.Sprintf("%s %-*s %s", mastery.Badge(score), wordCol, ansi.Truncate(it.Answer, wordCol, "…"),
			ansi.Truncate(it.Prompt, defWidth, "…"))
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if mastery.LevelFor(score) == mastery.LevelMastered {
			style = style.Foreground(theme.Success)
		}
		if i == s.selected {
			line = "▸ " + line
			style = style.Foreground(theme.Primary).Bold(true)
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	sel := s.filtered[s.selected]
	detail := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(sel.Answer) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("  "+mastery.Label(s.ledger.Score(sel.Key)))
	if sel.Aux != "" {
		detail += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Width(width-8).Render("“"+sel.Aux+"”")
	}
	b.WriteString("\n")
	b.WriteString(detail)

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}
