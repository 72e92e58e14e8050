// Package flashcards shows word cards one at a time, either from the
// session batch or from the whole word list.
package flashcards

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/mastery"
	"github.com/abhisek/acedrill/internal/progress"
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

// Snapshotter reads the current progress record.
type Snapshotter interface {
	Snapshot() progress.Record
}

// FlashcardScreen flips through the current batch, or through the whole
// word list in library mode. Verifying a card rewards through the sink.
type FlashcardScreen struct {
	trainer  *session.Trainer
	progress Snapshotter
	deck     *session.Deck
	loaded   bool
	errMsg   string
	verified int
}

var _ screen.Screen = (*FlashcardScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardScreen)(nil)

// New creates a flashcard screen over the trainer's batch.
func New(trainer *session.Trainer, p Snapshotter, sink session.Sink) *FlashcardScreen {
	return &FlashcardScreen{
		trainer:  trainer,
		progress: p,
		deck:     session.NewDeck(nil, sink),
	}
}

func (s *FlashcardScreen) Init() tea.Cmd {
	if s.loaded {
		return nil
	}
	return s.load(false)
}

func (s *FlashcardScreen) load(fresh bool) tea.Cmd {
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

func (s *FlashcardScreen) Title() string {
	if s.deck.Library() {
		return "Flashcards · Library"
	}
	return "Flashcards"
}

func (s *FlashcardScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "V", Description: "I knew it"},
	}
	if s.deck.Library() {
		hints = append(hints,
			layout.KeyHint{Key: "S", Description: "Shuffle"},
			layout.KeyHint{Key: "M", Description: "Batch"})
	} else {
		hints = append(hints,
			layout.KeyHint{Key: "N", Description: "New batch"},
			layout.KeyHint{Key: "M", Description: "Library"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// toggleMode switches between the session batch and the full word list.
func (s *FlashcardScreen) toggleMode() tea.Cmd {
	s.verified = 0
	if s.deck.Library() {
		return s.load(false)
	}
	s.deck.BindLibrary(s.trainer.Pool())
	return nil
}

func (s *FlashcardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case batchLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.verified = 0
		s.deck.Bind(msg.Items)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "left", "h":
			s.deck.Prev()
		case "right", "l":
			s.deck.Next()
		case "space", "enter", "f":
			s.deck.Flip()
		case "v":
			if s.deck.Verify() {
				s.verified++
			}
		case "n":
			if !s.deck.Library() {
				return s, s.load(true)
			}
		case "s":
			s.deck.ShuffleLibrary(s.trainer.Rand(), s.trainer.Pool())
		case "m":
			return s, s.toggleMode()
		}
	}
	return s, nil
}

func (s *FlashcardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.RenderError(width, s.errMsg)
	}
	if !s.loaded {
		return components.RenderLoading(width, "Shuffling cards...", 0)
	}
	item, ok := s.deck.Current()
	if !ok {
		return components.RenderEmpty(width, "No cards in this batch.")
	}

	cw := components.ContentWidth(width)
	score := s.progress.Snapshot().Ledger().Score(item.Key)

	counter := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Card %d of %d", s.deck.Index()+1, s.deck.Len()))
	badge := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).
		Render(fmt.Sprintf("%s %s (%d)", mastery.Badge(score), mastery.Label(score), score))

	var face strings.Builder
	// The front shows the word, the back its definition.
	face.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(item.Answer))
	if s.deck.Revealed() {
		face.WriteString("\n\n")
		face.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 8).Render(item.Prompt))
		if item.Aux != "" {
			face.WriteString("\n\n")
			face.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Width(cw - 8).
				Render("“" + item.Aux + "”"))
		}
	} else {
		face.WriteString("\n\n")
		face.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("press space to flip"))
	}

	verified := lipgloss.NewStyle().Foreground(theme.Success).
		Render(fmt.Sprintf("✓ %d verified this round", s.verified))

	content := strings.Join([]string{
		counter,
		components.ArcadeCard(face.String(), cw),
		badge,
		verified,
	}, "\n\n")
	return components.CabinetFrame(content, width, height)
}
