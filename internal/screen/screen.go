package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/acedrill/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that own timers or engines. The router
// calls Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// Watch returns a command that waits for a signal on changes and then
// delivers msg. It returns nil once done is closed, so a screen that has
// been closed does not leave a goroutine behind.
func Watch(changes <-chan struct{}, done <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changes:
			return msg
		case <-done:
			return nil
		}
	}
}
