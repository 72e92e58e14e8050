package home

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/contentgen"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/quiz"
	"github.com/abhisek/acedrill/internal/router"
	"github.com/abhisek/acedrill/internal/screen"
	"github.com/abhisek/acedrill/internal/screens/flashcards"
	"github.com/abhisek/acedrill/internal/screens/grammar"
	"github.com/abhisek/acedrill/internal/screens/history"
	matchingscreen "github.com/abhisek/acedrill/internal/screens/matching"
	mistakescreen "github.com/abhisek/acedrill/internal/screens/mistakes"
	"github.com/abhisek/acedrill/internal/screens/practice"
	racescreen "github.com/abhisek/acedrill/internal/screens/race"
	"github.com/abhisek/acedrill/internal/screens/words"
	"github.com/abhisek/acedrill/internal/session"
	"github.com/abhisek/acedrill/internal/store"
	"github.com/abhisek/acedrill/internal/ui/components"
)

// GameOptions carries the configured game timings.
type GameOptions struct {
	RaceSeconds     int
	FeedbackDelay   time.Duration
	MatchErrorDelay time.Duration
	QuestionTimeout time.Duration
	Scheduler       session.Scheduler
}

// Deps holds everything the home screen hands to the screens it opens.
type Deps struct {
	Progress *progress.Store
	Trainer  *session.Trainer
	// Sink receives game events; normally session.Rewards plus metrics.
	Sink    session.Sink
	Source  contentgen.Source
	History store.HistoryRepo
	// Lessons generates grammar lessons; nil disables them.
	Lessons grammar.Generator
	Game    GameOptions
	// LLMEnabled hides the offline banner.
	LLMEnabled bool
	Logger     *zap.Logger
}

// HomeScreen is the dashboard and main menu.
type HomeScreen struct {
	deps       Deps
	menu       components.Menu
	menuLabels []string
	stats      dashboard
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &HomeScreen{deps: deps}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	items := []components.MenuItem{
		{Label: "FLASHCARDS", Action: push(func() screen.Screen {
			return flashcards.New(deps.Trainer, deps.Progress, deps.Sink)
		})},
		{Label: "MATCHING", Action: push(func() screen.Screen {
			return matchingscreen.New(deps.Trainer, deps.Sink, matchingscreen.Options{
				ErrorDelay: deps.Game.MatchErrorDelay,
				Scheduler:  deps.Game.Scheduler,
			})
		})},
		{Label: "SPEED RACE", Action: push(func() screen.Screen {
			return racescreen.New(deps.Trainer, deps.Sink, racescreen.Options{
				QuestionSeconds: deps.Game.RaceSeconds,
				FeedbackDelay:   deps.Game.FeedbackDelay,
				Scheduler:       deps.Game.Scheduler,
			})
		})},
		{Label: "PRACTICE TEST", Action: push(func() screen.Screen {
			return practice.New(practice.Deps{
				Progress: deps.Progress,
				Source:   deps.Source,
				History:  deps.History,
				Logger:   deps.Logger,
				Timeout:  deps.Game.QuestionTimeout,
			})
		})},
		{Label: "GRAMMAR LESSONS", Action: push(func() screen.Screen {
			return grammar.New(grammar.Deps{
				Generator: deps.Lessons,
				Progress:  deps.Progress,
				Logger:    deps.Logger,
				Timeout:   deps.Game.QuestionTimeout,
			})
		})},
		{Label: "MISTAKE LOG", Action: push(func() screen.Screen {
			return mistakescreen.New(quiz.NewReview(deps.Progress, deps.Logger))
		})},
		{Label: "WORD LIST", Action: push(func() screen.Screen {
			return words.New(deps.Trainer.Pool(), deps.Progress.Snapshot().Ledger())
		})},
		{Label: "HISTORY", Action: push(func() screen.Screen {
			return history.New(deps.History)
		})},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	for i, it := range items {
		switch it.Label {
		case "GRAMMAR LESSONS":
			items[i].Disabled = deps.Lessons == nil
		case "HISTORY":
			items[i].Disabled = deps.History == nil
		}
	}

	h.menu = components.NewMenu(items)
	for _, it := range items {
		h.menuLabels = append(h.menuLabels, it.Label)
	}
	h.refresh()
	return h
}

// refresh recomputes the dashboard from the progress record.
func (h *HomeScreen) refresh() {
	h.stats = newDashboard(h.deps.Progress.Snapshot())
}

// Init refreshes the dashboard; the router calls it again when a screen
// above is popped.
func (h *HomeScreen) Init() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 48 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(h.stats), cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if !compact {
		sections = append(sections, renderCategoryBars(h.stats, cw))
	}
	if !h.deps.LLMEnabled {
		sections = append(sections, renderOfflineBanner(cw))
	}

	disabled := make(map[int]bool)
	for i, it := range h.menu.Items {
		disabled[i] = it.Disabled
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw, disabled))
	}

	content := strings.Join(sections, "\n\n")
	return components.CabinetFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
