// Package app hosts the root Bubble Tea model.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/router"
	"github.com/abhisek/acedrill/internal/screen"
	"github.com/abhisek/acedrill/internal/screens/home"
	"github.com/abhisek/acedrill/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	progress *progress.Store
	width    int
	height   int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(deps home.Deps) AppModel {
	return AppModel{
		router:   router.New(home.New(deps)),
		progress: deps.Progress,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	rec := m.progress.Snapshot()
	header := layout.RenderHeader(title, rec.XP, len(rec.Mistakes), m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits. Every open
// screen is closed before Run returns.
func Run(ctx context.Context, deps home.Deps) error {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	m := newAppModel(deps)
	defer m.router.CloseAll()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		deps.Logger.Error("tui exited with error", zap.Error(err))
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
