// Package tui provides the Bubble Tea render collaborator for the ball
// simulation: the playfield view, the source picker and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gyroball/internal/core"
)

// statsRate is how often the HUD refreshes its counters, per second.
const statsRate = 4

// TickMsg is sent to refresh the HUD.
type TickMsg time.Time

// positionMsg carries a position published by the loop.
type positionMsg core.Vec

// loopClosedMsg is sent once the position subscription has been closed.
type loopClosedMsg struct{}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForPosition blocks on the subscription until the loop publishes.
func waitForPosition(ch <-chan core.Vec) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return loopClosedMsg{}
		}
		return positionMsg(p)
	}
}
