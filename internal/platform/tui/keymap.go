package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cavern/internal/core"
)

// DefaultHoldWindow is how long a key counts as held after its last event.
// Terminals report presses and auto-repeats but never releases, so held
// state has to be inferred from the repeat stream.
const DefaultHoldWindow = 150 * time.Millisecond

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "w", "up":
		return core.ActionUp, false
	case "s", "down":
		return core.ActionDown, false
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "i":
		return core.ActionAimUp, false
	case "k":
		return core.ActionAimDown, false
	case "j":
		return core.ActionAimLeft, false
	case "l":
		return core.ActionAimRight, false
	case " ":
		return core.ActionFire, false
	case "b":
		return core.ActionBomb, false
	case "enter":
		return core.ActionConfirm, false
	case "p", "esc":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// continuous reports whether an action is a held control. Other actions
// are one-shot and reach the game exactly once per key event.
func continuous(a core.Action) bool {
	switch a {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight,
		core.ActionAimUp, core.ActionAimDown, core.ActionAimLeft, core.ActionAimRight,
		core.ActionFire:
		return true
	}
	return false
}

// HoldTracker turns key events into per-frame input.
type HoldTracker struct {
	window   time.Duration
	lastSeen map[core.Action]time.Time
	once     core.InputFrame
}

// NewHoldTracker creates a tracker; a non-positive window uses
// DefaultHoldWindow.
func NewHoldTracker(window time.Duration) *HoldTracker {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &HoldTracker{
		window:   window,
		lastSeen: make(map[core.Action]time.Time),
		once:     core.NewInputFrame(),
	}
}

// Press records a key event for a at time now.
func (h *HoldTracker) Press(a core.Action, now time.Time) {
	if a == core.ActionNone {
		return
	}
	if continuous(a) {
		h.lastSeen[a] = now
		return
	}
	h.once.Set(a)
}

// Frame returns the actions active at now: held controls seen within the
// window and one-shot actions pressed since the previous frame.
func (h *HoldTracker) Frame(now time.Time) core.InputFrame {
	f := core.NewInputFrame()
	for a, t := range h.lastSeen {
		if now.Sub(t) <= h.window {
			f.Set(a)
		} else {
			delete(h.lastSeen, a)
		}
	}
	for a := range h.once.Actions {
		f.Set(a)
	}
	h.once.Clear()
	return f
}

// Release forgets every held control, e.g. when the game loses focus.
func (h *HoldTracker) Release() {
	clear(h.lastSeen)
	h.once.Clear()
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
