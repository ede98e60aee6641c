package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netpong/internal/game"
)

// KeyMapper translates Bubble Tea key messages into per-tick inputs.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey folds one key press into the input being assembled for the next
// tick. Returns true when the key is a quit request. Terminals deliver key
// presses rather than held keys, so a press sets full deflection for the
// tick it lands on and the frame is cleared after each tick.
func (km *KeyMapper) MapKey(msg tea.KeyMsg, in *game.Input) (isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return true
	case "w", "up", "k":
		in.AxisY = 127
	case "s", "down", "j":
		in.AxisY = -127
	case "r", "enter", " ":
		in.Buttons |= game.ButtonReady
	case "p":
		in.Buttons |= game.ButtonPause
	}
	return false
}
