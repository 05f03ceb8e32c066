package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func sampleTabs() []Tab {
	return []Tab{
		{Name: "hooks", Items: []Item{
			{ID: "guard-bash", Label: "guard-bash", Selected: true},
			{ID: "format-on-edit", Label: "format-on-edit", Description: "Run the formatter"},
		}},
		{Name: "permissions", Items: []Item{
			{ID: "read-only", Label: "read-only"},
			{ID: "git", Label: "git"},
			{ID: "go", Label: "go"},
		}},
	}
}

func TestPickerDefaults(t *testing.T) {
	m := New("Select components", sampleTabs())
	assert.Equal(t, map[string][]string{
		"hooks":       {"guard-bash"},
		"permissions": {},
	}, m.Selections())
}

func TestPickerToggleAndTabs(t *testing.T) {
	m := New("Select components", sampleTabs())

	m = press(t, m,
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyRight},
		runes("a"),
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeySpace},
	)

	assert.Equal(t, map[string][]string{
		"hooks":       {"format-on-edit"},
		"permissions": {"read-only", "git"},
	}, m.Selections())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.False(t, next.(Model).IsQuitting())
	assert.Empty(t, next.(Model).View())
}

func TestPickerSearchFilters(t *testing.T) {
	m := New("Select components", sampleTabs())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, runes("/"), runes("g"), runes("i"), runes("t"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, m.View(), "Filter: git")
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, []string{"git"}, m.Selections()["permissions"])
}

func TestPickerQuit(t *testing.T) {
	m := New("Select components", sampleTabs())
	m = press(t, m, runes("q"))
	assert.True(t, m.IsQuitting())
}

func TestPickerView(t *testing.T) {
	view := New("Select components", sampleTabs()).View()
	assert.Contains(t, view, "Select components")
	assert.Contains(t, view, "(1/2)")
	assert.Contains(t, view, "Run the formatter")
}
