package sim

import "github.com/vovakirdan/cavern/internal/core"

// Audio plays sounds requested by behaviors. Play must not block and
// failures stay inside the implementation.
type Audio interface {
	Play(sound string)
}

// NopAudio discards every sound.
type NopAudio struct{}

// Play does nothing.
func (NopAudio) Play(string) {}

// AudioFunc adapts a function to Audio.
type AudioFunc func(sound string)

// Play calls f.
func (f AudioFunc) Play(sound string) { f(sound) }

// Step phase names reported to a StepObserver.
const (
	PhaseCull    = "cull"
	PhaseAction  = "action"
	PhasePhysics = "physics"
	PhaseTiles   = "tiles"
	PhaseCollide = "collide"
	PhaseDestroy = "destroy"
)

// Phases lists the step phases in execution order.
var Phases = []string{PhaseCull, PhaseAction, PhasePhysics, PhaseTiles, PhaseCollide, PhaseDestroy}

// StepObserver is told when each step and each phase starts.
type StepObserver interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

type nopObserver struct{}

func (nopObserver) StartTick()        {}
func (nopObserver) StartPhase(string) {}
func (nopObserver) EndTick()          {}

type noInput struct{}

func (noInput) Move() core.Vec            { return core.Zero }
func (noInput) Aim() core.Vec             { return core.Zero }
func (noInput) Pressed(core.Action) bool  { return false }
func (noInput) Held(core.Action) bool     { return false }
func (noInput) Released(core.Action) bool { return false }
