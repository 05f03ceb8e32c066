// Package picker provides the interactive prompts used by init and update: a
// tabbed multi-select for components and a yes/no confirmation.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

const maxVisibleItems = 10 // Maximum items to show before scrolling

// Item represents a selectable item
type Item struct {
	ID          string
	Label       string
	Description string
	Selected    bool
}

// Tab is one component kind with its items
type Tab struct {
	Name     string
	Items    []Item
	cursor   int
	offset   int // scroll offset
	selected map[string]bool
}

// Model is the Bubble Tea model for the tabbed multi-select picker
type Model struct {
	title       string
	tabs        []Tab
	currentTab  int
	done        bool
	quitting    bool
	searchInput textinput.Model
	searching   bool
}

// New creates a picker. Items marked Selected start checked.
func New(title string, tabs []Tab) Model {
	for i := range tabs {
		tabs[i].selected = make(map[string]bool)
		for _, item := range tabs[i].Items {
			if item.Selected {
				tabs[i].selected[item.ID] = true
			}
		}
	}

	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.CharLimit = 50
	ti.Width = 40

	return Model{
		title:       title,
		tabs:        tabs,
		searchInput: ti,
	}
}

// Selections returns the checked item IDs of each tab, keyed by tab name, in
// item order
func (m Model) Selections() map[string][]string {
	result := make(map[string][]string)
	for _, tab := range m.tabs {
		selected := []string{}
		for _, item := range tab.Items {
			if tab.selected[item.ID] {
				selected = append(selected, item.ID)
			}
		}
		result[tab.Name] = selected
	}
	return result
}

// IsQuitting returns true if the user quit without confirming
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// filteredItems returns items matching the current search query
func (m Model) filteredItems(tab *Tab) []Item {
	if m.searchInput.Value() == "" {
		return tab.Items
	}

	query := strings.ToLower(m.searchInput.Value())
	var filtered []Item
	for _, item := range tab.Items {
		if strings.Contains(strings.ToLower(item.Label), query) ||
			strings.Contains(strings.ToLower(item.ID), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// adjustScroll keeps the cursor inside the viewport
func (m *Model) adjustScroll() {
	tab := &m.tabs[m.currentTab]
	itemCount := len(m.filteredItems(tab))

	tab.cursor = max(min(tab.cursor, itemCount-1), 0)

	if tab.cursor < tab.offset {
		tab.offset = tab.cursor
	}
	if tab.cursor >= tab.offset+maxVisibleItems {
		tab.offset = tab.cursor - maxVisibleItems + 1
	}
	tab.offset = max(min(tab.offset, itemCount-maxVisibleItems), 0)
}

func (m *Model) resetCursor() {
	tab := &m.tabs[m.currentTab]
	tab.cursor = 0
	tab.offset = 0
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if !m.searching && key.Matches(keyMsg, keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if len(m.tabs) == 0 {
		if key.Matches(keyMsg, keys.Confirm) {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.searching {
		switch keyMsg.String() {
		case "esc":
			m.searching = false
			m.searchInput.SetValue("")
			m.searchInput.Blur()
			m.resetCursor()
			return m, nil
		case "enter":
			// keep the filter
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(keyMsg)
			m.resetCursor()
			return m, cmd
		}
	}

	tab := &m.tabs[m.currentTab]
	items := m.filteredItems(tab)

	switch {
	case key.Matches(keyMsg, keys.Search):
		m.searching = true
		return m, m.searchInput.Focus()

	case key.Matches(keyMsg, keys.Left):
		if m.currentTab > 0 {
			m.currentTab--
			m.searchInput.SetValue("")
		}

	case key.Matches(keyMsg, keys.Right):
		if m.currentTab < len(m.tabs)-1 {
			m.currentTab++
			m.searchInput.SetValue("")
		}

	case key.Matches(keyMsg, keys.Up):
		if tab.cursor > 0 {
			tab.cursor--
		} else if len(items) > 0 {
			tab.cursor = len(items) - 1
		}
		m.adjustScroll()

	case key.Matches(keyMsg, keys.Down):
		if tab.cursor < len(items)-1 {
			tab.cursor++
			m.adjustScroll()
		} else {
			m.resetCursor()
		}

	case key.Matches(keyMsg, keys.Toggle):
		if tab.cursor < len(items) {
			id := items[tab.cursor].ID
			tab.selected[id] = !tab.selected[id]
		}

	case key.Matches(keyMsg, keys.All):
		allSelected := true
		for _, item := range items {
			if !tab.selected[item.ID] {
				allSelected = false
				break
			}
		}
		for _, item := range items {
			tab.selected[item.ID] = !allSelected
		}

	case key.Matches(keyMsg, keys.Confirm):
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Underline(true)
	inactiveTabStyle = lipgloss.NewStyle().Faint(true)
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// View implements tea.Model
func (m Model) View() string {
	if m.done || m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(ui.HeaderStyle.Render(m.title))
	b.WriteString("\n\n")

	var tabNames []string
	for i, tab := range m.tabs {
		count := 0
		for _, item := range tab.Items {
			if tab.selected[item.ID] {
				count++
			}
		}
		countStr := ui.MutedStyle.Render(fmt.Sprintf("(%d/%d)", count, len(tab.Items)))

		style := inactiveTabStyle
		if i == m.currentTab {
			style = activeTabStyle
		}
		tabNames = append(tabNames, style.Render(tab.Name)+" "+countStr)
	}
	b.WriteString(strings.Join(tabNames, "  |  "))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 60))
	b.WriteString("\n")

	if m.searching {
		b.WriteString("\n/ ")
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	} else if m.searchInput.Value() != "" {
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("Filter: %s (press / to edit, esc to clear)", m.searchInput.Value())))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.tabs) == 0 {
		b.WriteString(ui.MutedStyle.Render("  (nothing to select)"))
		b.WriteString("\n")
		return b.String()
	}

	tab := m.tabs[m.currentTab]
	items := m.filteredItems(&tab)

	if len(items) == 0 {
		if m.searchInput.Value() != "" {
			b.WriteString(ui.MutedStyle.Render("  (no matching items)"))
		} else {
			b.WriteString(ui.MutedStyle.Render("  (no items)"))
		}
		b.WriteString("\n")
	} else {
		if tab.offset > 0 {
			b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("  ↑ %d more above", tab.offset)))
			b.WriteString("\n")
		}

		end := min(tab.offset+maxVisibleItems, len(items))
		for i := tab.offset; i < end; i++ {
			item := items[i]
			cursor := "  "
			if i == tab.cursor {
				cursor = cursorStyle.Render("> ")
			}

			checked := "[ ]"
			if tab.selected[item.ID] {
				checked = ui.SuccessStyle.Render("[x]")
			}

			line := fmt.Sprintf("%s%s %s", cursor, checked, item.Label)
			if item.Description != "" {
				line += " " + ui.MutedStyle.Render(item.Description)
			}
			b.WriteString(line + "\n")
		}

		if remaining := len(items) - end; remaining > 0 {
			b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render("←/→: switch tab • ↑/↓: navigate • space: toggle • a: all/none • /: search • enter: confirm • q: quit"))

	return b.String()
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	All     key.Binding
	Search  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h", "shift+tab"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l", "tab"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
	),
}

// Run shows the picker and returns the selections per tab. Quitting returns
// errors.ErrAborted.
func Run(title string, tabs []Tab) (map[string][]string, error) {
	p := tea.NewProgram(New(title, tabs))

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm := finalModel.(Model)
	if fm.IsQuitting() {
		return nil, errors.ErrAborted
	}
	return fm.Selections(), nil
}
