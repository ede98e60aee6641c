// Package tui provides the Bubble Tea integration for duels: the playfield
// renderer, the local frame loop, and the hosted-lobby flow.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one local frame: sample input, feed the
// lockstep engine, redraw.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the
// given rate.
func tickCmd(tickHz int) tea.Cmd {
	interval := time.Second / time.Duration(tickHz)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
