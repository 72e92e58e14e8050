// Package layout draws the chrome around every screen: header, footer and
// the too-small notice.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/acedrill/internal/ui/theme"
)

// Smallest terminal the screens are laid out for.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf("Terminal too small\n\nAceDrill needs at least %d x %d\n(now %d x %d)",
			MinWidth, MinHeight, width, height))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader shows the brand on the left, the screen title centred and
// the XP total with the mistake count on the right.
func RenderHeader(title string, xp, mistakes int, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  AceDrill")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	mistakeStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if mistakes > 0 {
		mistakeStyle = mistakeStyle.Foreground(theme.Error)
	}
	stats := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(fmt.Sprintf("★ %d XP", xp)) +
		"   " + mistakeStyle.Render(fmt.Sprintf("✗ %d", mistakes))

	inner := max(width-4, 0)
	bw, cw, sw := lipgloss.Width(brand), lipgloss.Width(center), lipgloss.Width(stats)
	leftGap := max((inner-cw)/2-bw, 1)
	rightGap := max(inner-bw-leftGap-cw-sw, 1)

	return bar(width).Render(brand + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + stats)
}

// RenderFooter lists key hints. Hints that do not fit are dropped from the
// end rather than wrapped.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	inner := max(width-4, 0)
	line := " "
	for _, h := range hints {
		part := "  " + keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		if ansi.StringWidth(line+part) > inner {
			break
		}
		line += part
	}
	return bar(width).Render(line)
}

// RenderFrame stacks header, content and footer, giving content whatever
// height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return header + "\n" + body + "\n" + footer
}
