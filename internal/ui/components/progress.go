package components

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/acedrill/internal/ui/theme"
)

const (
	minTrack     = 4
	percentWidth = 6 // "  100%"
)

// ProgressBar is a label followed by a block track and an optional
// percentage. Percent is a fraction and is clamped to [0, 1].
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
	Color       color.Color // fill, defaults to theme.Secondary
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) View() string {
	frac := min(max(p.Percent, 0), 1)

	var head, tail string
	if p.Label != "" {
		head = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	track := p.Width - lipgloss.Width(head)
	if p.ShowPercent {
		tail = lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(math.Round(frac*100))))
		track -= percentWidth
	}
	track = max(track, minTrack)

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}
	n := int(float64(track) * frac)
	filled := lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", n))
	empty := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", track-n))

	return head + filled + empty + tail
}
