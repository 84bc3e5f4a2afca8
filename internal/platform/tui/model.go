package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gyroball/internal/core"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// Presser receives tilt actions from the keyboard. The keyboard sample
// source implements it.
type Presser interface {
	Press(a core.Action) bool
}

// Model is the Bubble Tea model that draws a running simulation loop.
// It never advances the simulation itself; it redraws whenever the loop
// publishes a position.
type Model struct {
	loop        *sim.Loop
	presser     Presser // nil when the source is not keyboard driven
	screen      *core.Screen
	config      core.RuntimeConfig
	keys        KeyMap
	help        help.Model
	positions   <-chan core.Vec
	unsubscribe func()
	position    core.Vec
	stats       sim.Stats
	embedded    bool // Back returns to a parent model instead of quitting
	quitting    bool
	backToMenu  bool
}

// NewModel creates a model that subscribes to loop's positions.
// presser may be nil.
func NewModel(loop *sim.Loop, presser Presser, cfg core.RuntimeConfig) Model {
	positions, unsubscribe := loop.Subscribe()

	return Model{
		loop:        loop,
		presser:     presser,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:      cfg,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		positions:   positions,
		unsubscribe: unsubscribe,
		position:    loop.Position(),
		stats:       loop.Stats(),
	}
}

// Init starts listening for positions and refreshing the HUD.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForPosition(m.positions), tickCmd(statsRate))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case positionMsg:
		m.position = core.Vec(msg)
		return m, waitForPosition(m.positions)

	case TickMsg:
		m.stats = m.loop.Stats()
		return m, tickCmd(statsRate)

	case loopClosedMsg:
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case core.ActionBack:
		m.backToMenu = true
		if !m.embedded {
			m.quitting = true
			m.Close()
			return m, tea.Quit
		}

	case core.ActionRecenter:
		m.loop.Recenter()

	case core.ActionToggleHelp:
		m.help.ShowAll = !m.help.ShowAll

	case core.ActionTiltUp, core.ActionTiltDown, core.ActionTiltLeft, core.ActionTiltRight:
		if m.presser != nil {
			m.presser.Press(action)
		}
	}

	return m, nil
}

// Close releases the position subscription. It is safe to call twice.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// saveScreenshot saves the current frame as plain text.
func (m *Model) saveScreenshot() {
	m.render(m.config.ScreenH)

	dir := filepath.Join(os.Getenv("HOME"), ".gyroball", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("gyroball_%s.txt", time.Now().Format("20060102_150405"))

	//nolint:errcheck // Best-effort save, the view keeps running regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

func (m *Model) render(height int) {
	m.screen.Resize(m.config.ScreenW, height)
	DrawScene(m.screen, Scene{
		Config:   m.loop.Config(),
		Position: m.position,
		Stats:    m.stats,
	})
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	helpView := m.help.View(m.keys)
	m.render(m.config.ScreenH - lipgloss.Height(helpView))
	return RenderScreen(m.screen) + "\n" + helpView
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Position returns the last position received from the loop.
func (m Model) Position() core.Vec {
	return m.position
}

// Run starts the Bubble Tea program for an already started loop and blocks
// until the user quits.
func Run(loop *sim.Loop, presser Presser, cfg core.RuntimeConfig) error {
	model := NewModel(loop, presser, cfg)
	defer model.Close()

	opts := []tea.ProgramOption{
		tea.WithAltScreen(), // Use alternate screen buffer
	}
	if cfg.FrameRate > 0 {
		opts = append(opts, tea.WithFPS(cfg.FrameRate))
	}

	p := tea.NewProgram(model, opts...)

	_, err := p.Run()
	return err
}
