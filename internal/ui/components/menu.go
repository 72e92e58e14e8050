package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acedrill/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Disabled entries are shown but never
// receive the cursor.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list navigated with the arrow keys. Number keys jump
// straight to the nth enabled entry.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.step(0, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// step moves the cursor from start in direction dir to the first enabled
// item. The cursor stays put when there is none.
func (m *Menu) step(start, dir int) {
	for i := start; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) enabled() []int {
	var idx []int
	for i, it := range m.Items {
		if !it.Disabled {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.step(m.Selected-1, -1)
	case "down", "j":
		m.step(m.Selected+1, 1)
	case "enter":
		return m, m.activate()
	default:
		if n, err := strconv.Atoi(key); err == nil {
			if idx := m.enabled(); n >= 1 && n <= len(idx) {
				m.Selected = idx[n-1]
			}
		}
	}
	return m, nil
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	it := m.Items[m.Selected]
	if it.Disabled || it.Action == nil {
		return nil
	}
	return it.Action()
}

func (m Menu) SelectedLabel() string {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return ""
	}
	return m.Items[m.Selected].Label
}

func (m Menu) View() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	normal := lipgloss.NewStyle().Foreground(theme.Text)
	cursor := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)

	var b strings.Builder
	for i, it := range m.Items {
		switch {
		case it.Disabled:
			b.WriteString(dim.Render("    " + it.Label))
		case i == m.Selected:
			b.WriteString(cursor.Render("  ▸ " + it.Label))
		default:
			b.WriteString(normal.Render("    " + it.Label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
