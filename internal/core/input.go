package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // W, Up arrow
	ActionDown             // S, Down arrow
	ActionLeft             // A, Left arrow
	ActionRight            // D, Right arrow
	ActionAimUp            // I
	ActionAimDown          // K
	ActionAimLeft          // J
	ActionAimRight         // L
	ActionFire             // Space
	ActionBomb             // B
	ActionConfirm          // Enter
	ActionRestart          // R
	ActionQuit             // Q, Ctrl+C
	ActionPause            // P, Escape
	actionCount
)

var actionNames = [...]string{
	ActionNone:     "None",
	ActionUp:       "Up",
	ActionDown:     "Down",
	ActionLeft:     "Left",
	ActionRight:    "Right",
	ActionAimUp:    "AimUp",
	ActionAimDown:  "AimDown",
	ActionAimLeft:  "AimLeft",
	ActionAimRight: "AimRight",
	ActionFire:     "Fire",
	ActionBomb:     "Bomb",
	ActionConfirm:  "Confirm",
	ActionRestart:  "Restart",
	ActionQuit:     "Quit",
	ActionPause:    "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame is the set of actions triggered during one host frame.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// InputReader is the read-only view of player input the simulation consumes
// during its action phase.
type InputReader interface {
	Move() Vec
	Aim() Vec
	Pressed(a Action) bool
	Held(a Action) bool
	Released(a Action) bool
}

// InputState derives held state and press/release edges from successive
// input frames.
type InputState struct {
	prev [actionCount]bool
	cur  [actionCount]bool
}

// Advance moves to the next host frame.
func (s *InputState) Advance(f InputFrame) {
	s.prev = s.cur
	for a := range s.cur {
		s.cur[a] = f.Has(Action(a))
	}
}

// Merge adds the actions of f to the current frame without moving to a new
// one. Hosts use it when a frame ran no steps, so presses are not lost.
func (s *InputState) Merge(f InputFrame) {
	for a := range s.cur {
		s.cur[a] = s.cur[a] || f.Has(Action(a))
	}
}

// Settle marks the current edges as consumed. Steps after the first one in
// a host frame see held actions but no new presses or releases.
func (s *InputState) Settle() {
	s.prev = s.cur
}

// Reset clears all state.
func (s *InputState) Reset() {
	s.prev = [actionCount]bool{}
	s.cur = [actionCount]bool{}
}

func (s *InputState) valid(a Action) bool {
	return a > ActionNone && a < actionCount
}

// Held reports whether a is active this frame.
func (s *InputState) Held(a Action) bool {
	return s.valid(a) && s.cur[a]
}

// Pressed reports whether a became active this frame.
func (s *InputState) Pressed(a Action) bool {
	return s.valid(a) && s.cur[a] && !s.prev[a]
}

// Released reports whether a stopped being active this frame.
func (s *InputState) Released(a Action) bool {
	return s.valid(a) && !s.cur[a] && s.prev[a]
}

// Move returns the desired movement direction. Components are in [-1, 1];
// the vector is not normalized.
func (s *InputState) Move() Vec {
	return s.axis(ActionLeft, ActionRight, ActionUp, ActionDown)
}

// Aim returns the desired aim direction, or the zero vector when no aim key
// is held.
func (s *InputState) Aim() Vec {
	return s.axis(ActionAimLeft, ActionAimRight, ActionAimUp, ActionAimDown)
}

func (s *InputState) axis(left, right, up, down Action) Vec {
	var v Vec
	if s.cur[left] {
		v.X--
	}
	if s.cur[right] {
		v.X++
	}
	if s.cur[up] {
		v.Y--
	}
	if s.cur[down] {
		v.Y++
	}
	return v
}
