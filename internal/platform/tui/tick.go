// Package tui provides the Bubble Tea host for the cave game.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent once per host frame. Its time is the host clock the
// game's scheduler consumes.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends the next frame message at
// the specified rate. The model re-arms it on every frame.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
