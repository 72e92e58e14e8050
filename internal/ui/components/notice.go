package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/acedrill/internal/ui/theme"
)

// spinnerFrames animate RenderLoading.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RenderLoading renders a centered loading line. frame advances the spinner.
func RenderLoading(width int, text string, frame int) string {
	spin := spinnerFrames[frame%len(spinnerFrames)]
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("\n\n\n  %s %s", spin, text))
}

// RenderError renders a centered error with a hint to go back.
func RenderError(width int, err string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press Esc to go back.", err))
}

// RenderEmpty renders a centered, dimmed placeholder message.
func RenderEmpty(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Italic(true).
		Render("\n\n  " + text)
}
