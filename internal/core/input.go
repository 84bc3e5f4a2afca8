package core

// Action represents a semantic input action, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionTiltUp            // W, Up arrow - positive rate about the Y axis
	ActionTiltDown          // S, Down arrow - negative rate about the Y axis
	ActionTiltLeft          // A, Left arrow - negative rate about the X axis
	ActionTiltRight         // D, Right arrow - positive rate about the X axis
	ActionRecenter          // R - restart the loop from the start position
	ActionToggleHelp        // ? - toggle the full help view
	ActionBack              // B, Escape - back to menu
	ActionConfirm           // Enter - confirm menu selection
	ActionQuit              // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTiltUp:
		return "TiltUp"
	case ActionTiltDown:
		return "TiltDown"
	case ActionTiltLeft:
		return "TiltLeft"
	case ActionTiltRight:
		return "TiltRight"
	case ActionRecenter:
		return "Recenter"
	case ActionToggleHelp:
		return "ToggleHelp"
	case ActionBack:
		return "Back"
	case ActionConfirm:
		return "Confirm"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Tilt returns the unit angular-rate direction for a tilt action.
// ok is false for non-tilt actions.
func (a Action) Tilt() (x, y float64, ok bool) {
	switch a {
	case ActionTiltUp:
		return 0, 1, true
	case ActionTiltDown:
		return 0, -1, true
	case ActionTiltLeft:
		return -1, 0, true
	case ActionTiltRight:
		return 1, 0, true
	}
	return 0, 0, false
}
