package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acedrill/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // strong average
	MascotAlert                     // mistakes piling up
)

// alertMistakes is the log size from which the mascot nags.
const alertMistakes = 5

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ A b │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ A+  │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ ✗ ✗ │
└─────┘`

func mascotFor(d dashboard) MascotVariant {
	switch {
	case d.mistakes >= alertMistakes:
		return MascotAlert
	case d.sessions > 0 && d.average >= 80:
		return MascotCelebrating
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch variant {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
