// Package matching renders the definition/word pairing board.
package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/matching"
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

// boardChangedMsg carries the board generation it was armed for so signals
// from a replaced engine are dropped.
type boardChangedMsg struct {
	gen int
}

// Options configures the board.
type Options struct {
	ErrorDelay time.Duration
	// Scheduler drives the mismatch highlight. Defaults to real time.
	Scheduler session.Scheduler
}

// MatchingScreen hosts a matching.Engine over the current batch.
type MatchingScreen struct {
	trainer *session.Trainer
	sink    session.Sink
	opts    Options

	engine *matching.Engine
	done   chan struct{}
	gen    int

	side   matching.Side
	cursor [2]int
	last   matching.Outcome
	loaded bool
	errMsg string
}

var _ screen.Screen = (*MatchingScreen)(nil)
var _ screen.KeyHintProvider = (*MatchingScreen)(nil)
var _ screen.Closer = (*MatchingScreen)(nil)

// New creates a matching screen. Events from the board go to sink.
func New(trainer *session.Trainer, sink session.Sink, opts Options) *MatchingScreen {
	return &MatchingScreen{trainer: trainer, sink: sink, opts: opts}
}

func (s *MatchingScreen) Init() tea.Cmd {
	if s.loaded {
		return s.watch()
	}
	return s.load(false)
}

func (s *MatchingScreen) load(fresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			items []catalog.Item
			err   error
		)
		if fresh {
			items, err = s.trainer.NewBatch(ctx)
		} else {
			items, err = s.trainer.EnsureBatch(ctx)
		}
		return batchLoadedMsg{Items: items, Err: err}
	}
}

func (s *MatchingScreen) watch() tea.Cmd {
	if s.engine == nil {
		return nil
	}
	return screen.Watch(s.engine.Changes(), s.done, boardChangedMsg{gen: s.gen})
}

// Close stops the board's pending timer and releases the watcher.
func (s *MatchingScreen) Close() {
	if s.engine != nil {
		s.engine.Stop()
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

func (s *MatchingScreen) start(items []catalog.Item) tea.Cmd {
	s.Close()
	s.engine = matching.New(items, matching.Options{
		ErrorDelay: s.opts.ErrorDelay,
		Scheduler:  s.opts.Scheduler,
		Sink:       s.sink,
		Rand:       s.trainer.Rand(),
	})
	s.done = make(chan struct{})
	s.gen++
	s.side = matching.SidePrompt
	s.cursor = [2]int{}
	s.last = matching.Ignored
	return s.watch()
}

func (s *MatchingScreen) Title() string {
	return "Matching"
}

func (s *MatchingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "←→", Description: "Column"},
		{Key: "Enter", Description: "Pick"},
		{Key: "N", Description: "New batch"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MatchingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case batchLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		return s, s.start(msg.Items)

	case boardChangedMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		return s, s.watch()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *MatchingScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "n":
		return s, s.load(true)
	}
	if s.engine == nil {
		return s, nil
	}

	st := s.engine.State()
	col := s.column(st)
	switch msg.String() {
	case "up", "k":
		if s.cursor[s.side] > 0 {
			s.cursor[s.side]--
		}
	case "down", "j":
		if s.cursor[s.side] < len(col)-1 {
			s.cursor[s.side]++
		}
	case "left", "h":
		s.side = matching.SidePrompt
	case "right", "l":
		s.side = matching.SideAnswer
	case "tab":
		s.side = s.side.Opposite()
	case "enter", "space":
		if i := s.cursor[s.side]; i < len(col) {
			s.last = s.engine.Select(col[i].Key, s.side)
			if s.last == matching.Armed || s.last == matching.Rearmed {
				// Jump to the other column to complete the pair.
				s.side = s.side.Opposite()
			}
		}
	}
	return s, nil
}

func (s *MatchingScreen) column(st matching.State) []matching.Card {
	if s.side == matching.SideAnswer {
		return st.Answers
	}
	return st.Prompts
}

func (s *MatchingScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.RenderError(width, s.errMsg)
	}
	if s.engine == nil {
		return components.RenderLoading(width, "Dealing the board...", 0)
	}

	st := s.engine.State()
	if st.Total == 0 {
		return components.RenderEmpty(width, "Nothing to match in this batch.")
	}

	colWidth := (width - 10) / 2
	if colWidth > 48 {
		colWidth = 48
	}

	left := s.renderColumn("DEFINITIONS", st.Prompts, matching.SidePrompt, colWidth)
	right := s.renderColumn("WORDS", st.Answers, matching.SideAnswer, colWidth)
	board := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	bar := components.NewProgressBar("Matched", float64(st.Matched)/float64(st.Total), false, colWidth*2)
	status := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d / %d pairs", st.Matched, st.Total))

	var banner string
	switch {
	case st.Complete:
		banner = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
			Render(fmt.Sprintf("★ BATCH CLEARED! +%d XP ★  press N for a new batch", session.BatchClearedXP))
	case st.ErrorOn:
		banner = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("✗ Not a pair")
	case s.last == matching.Matched:
		banner = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("✓ Match! +%d XP", session.MatchXP))
	}

	content := strings.Join([]string{board, bar.View() + "  " + status, banner}, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *MatchingScreen) renderColumn(title string, cards []matching.Card, side matching.Side, w int) string {
	var b strings.Builder
	head := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)
	if s.side == side {
		head = head.Foreground(theme.ArcadeCyan)
	}
	b.WriteString(head.Render(title))
	b.WriteString("\n")

	for i, c := range cards {
		prefix := "  "
		if s.side == side && s.cursor[side] == i {
			prefix = "▸ "
		}
		text := ansi.Truncate(c.Text, w-4, "…")

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Error:
			style = style.Foreground(theme.Error).Bold(true)
		case c.Revealed:
			style = style.Foreground(theme.Success).Faint(true)
			text = "✓ " + text
		case c.Selected:
			style = style.Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)
		case s.side == side && s.cursor[side] == i:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(prefix + style.Render(text) + "\n")
	}
	return lipgloss.NewStyle().Width(w).Render(b.String())
}
