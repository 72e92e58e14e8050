package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func key(text string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: rune(text[0]), Text: text}
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, minContentWidth, ContentWidth(10))
	assert.Equal(t, 40, ContentWidth(46))
	assert.Equal(t, maxContentWidth, ContentWidth(200))
}

func TestArcadeButton(t *testing.T) {
	assert.Contains(t, ArcadeButton("MATCHING", ButtonSelected, 20), "▸ MATCHING")
	assert.NotContains(t, ArcadeButton("MATCHING", ButtonIdle, 20), "▸")
	assert.NotContains(t, ArcadeButton("HISTORY", ButtonDisabled, 20), "▸")
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "HISTORY", Disabled: true},
		{Label: "WORDS"},
		{Label: "OFFLINE", Disabled: true},
		{Label: "EXIT"},
	})
	assert.Equal(t, "WORDS", m.SelectedLabel())

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, "EXIT", m.SelectedLabel())
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, "EXIT", m.SelectedLabel())
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, "WORDS", m.SelectedLabel())
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "GO", Action: func() tea.Cmd { ran = true; return nil }}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, ran)
}

func TestMultiChoice(t *testing.T) {
	mc := NewMultiChoice("Pick the synonym of 'terse'", []string{"brief", "wordy", "vague"}, 0)
	assert.False(t, mc.Submitted)

	mc, _ = mc.Update(key("2"))
	assert.True(t, mc.Submitted)
	assert.Equal(t, 1, mc.ChosenIndex)
	assert.False(t, mc.IsCorrect())

	mc, _ = mc.Update(key("9"))
	assert.Equal(t, 1, mc.ChosenIndex)

	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, mc.IsCorrect())

	mc.Reveal = true
	mc, _ = mc.Update(key("3"))
	assert.Equal(t, 0, mc.ChosenIndex)
	assert.Contains(t, ansi.Strip(mc.View()), "A)  brief")
}

func TestMultiChoice_Select(t *testing.T) {
	mc := NewMultiChoice("q", []string{"a", "b"}, 1)
	mc.Select(5)
	assert.False(t, mc.Submitted)
	mc.Select(1)
	assert.True(t, mc.IsCorrect())
}

func TestProgressBar(t *testing.T) {
	out := ansi.Strip(NewProgressBar("Vocabulary", 0.29, true, 40).View())
	assert.True(t, strings.HasPrefix(out, "Vocabulary"))
	assert.True(t, strings.HasSuffix(out, "29%"))
	assert.LessOrEqual(t, ansi.StringWidth(out), 40)
}

func TestMenu_NumberJumpsToEnabledItem(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "HISTORY", Disabled: true},
		{Label: "WORDS"},
		{Label: "EXIT"},
	})
	m, _ = m.Update(key("2"))
	assert.Equal(t, "EXIT", m.SelectedLabel())
	m, _ = m.Update(key("7"))
	assert.Equal(t, "EXIT", m.SelectedLabel())
}
