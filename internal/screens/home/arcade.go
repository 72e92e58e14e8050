package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
	"github.com/abhisek/acedrill/internal/ui/components"
	"github.com/abhisek/acedrill/internal/ui/theme"
)

const arcadeTitleFull = ` █████╗  ██████╗███████╗██████╗ ██████╗ ██╗██╗     ██╗
██╔══██╗██╔════╝██╔════╝██╔══██╗██╔══██╗██║██║     ██║
███████║██║     █████╗  ██║  ██║██████╔╝██║██║     ██║
██╔══██║██║     ██╔══╝  ██║  ██║██╔══██╗██║██║     ██║
██║  ██║╚██████╗███████╗██████╔╝██║  ██║██║███████╗███████╗
╚═╝  ╚═╝ ╚═════╝╚══════╝╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝╚══════╝`

const arcadeTitleCompact = "A · C · E · D · R · I · L · L"

// dashboard is the slice of the progress record the home screen shows.
type dashboard struct {
	xp       int
	sessions int
	average  int
	accuracy int
	answered int
	mistakes int
	mastered int
	scores   map[catalog.Category]int
}

func newDashboard(r progress.Record) dashboard {
	return dashboard{
		xp:       r.XP,
		sessions: r.CompletedSessions,
		average:  r.AverageScore,
		accuracy: r.Accuracy(),
		answered: r.QuestionsAnswered,
		mistakes: len(r.Mistakes),
		mastered: len(r.Ledger().MasteredKeys()),
		scores:   r.CategoryScores,
	}
}

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact || cw < lipgloss.Width(arcadeTitleFull) {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders the headline numbers in a bordered box.
func renderStatsBar(d dashboard, cw int, compact bool) string {
	xpStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	avgStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s %s",
			xpStyle.Render(fmt.Sprintf("★%d", d.xp)),
			avgStyle.Render(fmt.Sprintf("⌀%d%%", d.average)),
			accStyle.Render(fmt.Sprintf("◎%d%%", d.accuracy)),
			mistakeText(d.mistakes, true, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s\n%s  %s",
			xpStyle.Render(fmt.Sprintf("★ %d XP", d.xp)),
			avgStyle.Render(fmt.Sprintf("⌀ %d%% AVG", d.average)),
			accStyle.Render(fmt.Sprintf("◎ %d%% ACCURACY", d.accuracy)),
			dimStyle.Render(fmt.Sprintf("%d tests · %d answers · %d mastered", d.sessions, d.answered, d.mastered)),
			mistakeText(d.mistakes, false, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func mistakeText(n int, compact bool, dim lipgloss.Style) string {
	active := lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	if n == 0 {
		if compact {
			return dim.Render("✗0")
		}
		return dim.Render("✗ NO MISTAKES")
	}
	if compact {
		return active.Render(fmt.Sprintf("✗%d", n))
	}
	return active.Render(fmt.Sprintf("✗ %d TO REVIEW", n))
}

// renderCategoryBars shows the rolling score for every category.
func renderCategoryBars(d dashboard, cw int) string {
	var rows []string
	for _, c := range catalog.AllCategories() {
		label := fmt.Sprintf("%-22s", c.DisplayName())
		score, ok := d.scores[c]
		if !ok {
			rows = append(rows, lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(label+"  not attempted"))
			continue
		}
		bar := components.NewProgressBar(label, float64(score)/100, true, cw)
		bar.Color = theme.ScoreColor(score)
		rows = append(rows, bar.View())
	}
	return strings.Join(rows, "\n")
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu lays the menu out as a two-column grid of buttons.
func renderMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	var rows []string
	for i := 0; i < len(items); i += 2 {
		var pair []string
		for j := i; j < i+2 && j < len(items); j++ {
			state := components.ButtonIdle
			switch {
			case disabled[j]:
				state = components.ButtonDisabled
			case j == selected:
				state = components.ButtonSelected
			}
			pair = append(pair, components.ArcadeButton(items[j], state, buttonWidth))
		}
		if len(pair) == 2 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, pair[0], " ", pair[1]))
		} else {
			rows = append(rows, pair[0])
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

// renderMenuCompact renders menu items as simple text lines (no borders)
// for small terminals where bordered buttons would overflow.
func renderMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		if disabled[i] {
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		} else if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderOfflineBanner notes that only built-in content is available.
func renderOfflineBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ No LLM key set: practice tests cover vocabulary and spelling only")
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
