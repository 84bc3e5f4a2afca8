package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/registry"
)

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	menuSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	menuMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// MenuItem represents a selectable sample source in the menu.
type MenuItem struct {
	Source      string
	Description string
}

// MenuModel is the Bubble Tea model for the source picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	keys     KeyMap
	quitting bool
	selected *MenuItem // Set when user selects a source
}

// MenuItems returns menu entries for the named registered sources, in the
// order given. Unknown names are skipped.
func MenuItems(names ...string) []MenuItem {
	infos := make(map[string]registry.Info)
	for _, info := range registry.List() {
		infos[info.Name] = info
	}

	items := make([]MenuItem, 0, len(names))
	for _, name := range names {
		info, ok := infos[name]
		if !ok {
			continue
		}
		items = append(items, MenuItem{Source: info.Name, Description: info.Description})
	}
	return items
}

// NewMenuModel creates a new menu model.
func NewMenuModel(items []MenuItem, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		keys:   DefaultKeyMap(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Action(msg) {
	case core.ActionQuit, core.ActionBack:
		m.quitting = true
		return m, tea.Quit

	case core.ActionTiltUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case core.ActionTiltDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case core.ActionConfirm:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("G Y R O B A L L"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Pick a sample source", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor, name := "  ", fmt.Sprintf("%-10s", item.Source)
		if i == m.cursor {
			cursor, name = "> ", menuSelectedStyle.Render(name)
		}
		line := cursor + name + " " + menuMutedStyle.Render(item.Description)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuMutedStyle.Render("↑/↓: Navigate  |  Enter: Select  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
