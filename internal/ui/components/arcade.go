package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acedrill/internal/ui/theme"
)

// Inner width bounds for cabinet content.
const (
	minContentWidth = 20
	maxContentWidth = 60
)

// ContentWidth is the width every section inside a cabinet of frameWidth is
// rendered at, so boxes line up. It leaves room for the border and padding.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, minContentWidth), maxContentWidth)
}

// CabinetFrame centres content inside a double border filling width×height.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard is a rounded, padded panel cw columns wide.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ButtonState selects how ArcadeButton draws.
type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonSelected
	ButtonDisabled
)

// ArcadeButton renders a bordered menu button.
func ArcadeButton(label string, state ButtonState, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Text).
		Padding(0, 1)

	switch state {
	case ButtonSelected:
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	case ButtonDisabled:
		return style.Foreground(theme.TextDim).Render(label)
	default:
		return style.Render(label)
	}
}
