// Package theme holds the shared colour palette.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#8B5CF6") // purple: frames, titles
	Secondary = lipgloss.Color("#14B8A6") // teal: progress fill
	Accent    = lipgloss.Color("#F97316") // orange: middling scores, warnings
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")

	ArcadeYellow = lipgloss.Color("#FACC15") // selection, XP
	ArcadeCyan   = lipgloss.Color("#22D3EE") // definitions column, race clock
)

// Score thresholds shared by every percentage readout.
const (
	GoodScore = 80
	FairScore = 50
)

// ScoreColor colours a 0-100 percentage: green from GoodScore, orange from
// FairScore, red below.
func ScoreColor(pct int) color.Color {
	switch {
	case pct >= GoodScore:
		return Success
	case pct >= FairScore:
		return Accent
	default:
		return Error
	}
}
