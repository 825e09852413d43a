// Package loop drives a fixed-step simulation from a variable-rate host
// clock and computes the interpolation fraction for rendering between steps.
package loop

import "time"

// DefaultMaxFrame is the most simulated time a single host frame may
// inject. Anything beyond it is dropped.
const DefaultMaxFrame = 250 * time.Millisecond

// Stepper is the simulation the scheduler advances.
type Stepper interface {
	// Step advances the simulation by one fixed step.
	Step()
	// SnapshotPositions records current positions as the interpolation start.
	SnapshotPositions()
	// Interpolate sets render positions between the snapshot and now.
	Interpolate(f float64)
}

// Scheduler accumulates host time and runs whole fixed steps. Time that
// does not fill a step is carried into the next frame.
type Scheduler struct {
	step     time.Duration
	maxFrame time.Duration

	last     time.Time
	started  bool
	overtime time.Duration // simulated time already run ahead of the host clock
	fraction float64
	steps    uint64
}

// New creates a scheduler running tickRate steps per second.
func New(tickRate int, maxFrame time.Duration) *Scheduler {
	if tickRate <= 0 {
		tickRate = 60
	}
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrame
	}
	step := time.Second / time.Duration(tickRate)
	if maxFrame < step {
		maxFrame = step
	}
	return &Scheduler{step: step, maxFrame: maxFrame, fraction: 1}
}

// StepDuration returns the fixed step length.
func (s *Scheduler) StepDuration() time.Duration { return s.step }

// Fraction returns the interpolation fraction computed by the last frame.
// It is always in (0, 1].
func (s *Scheduler) Fraction() float64 { return s.fraction }

// Steps returns the total number of steps run.
func (s *Scheduler) Steps() uint64 { return s.steps }

// Reset restarts the clock at now without injecting the time since the last
// frame. Used when resuming from a pause.
func (s *Scheduler) Reset(now time.Time) {
	s.last = now
	s.started = true
	s.overtime = 0
	s.fraction = 1
}

// Frame runs the steps owed for the host time that passed since the
// previous frame and interpolates render positions. It returns the number of
// steps run. The first frame only starts the clock.
func (s *Scheduler) Frame(now time.Time, target Stepper) int {
	if !s.started {
		s.Reset(now)
		target.Interpolate(s.fraction)
		return 0
	}

	elapsed := now.Sub(s.last)
	s.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > s.maxFrame {
		elapsed = s.maxFrame
	}

	timeLeft := elapsed - s.overtime
	n := 0
	for timeLeft > 0 {
		if timeLeft <= s.step {
			target.SnapshotPositions()
		}
		target.Step()
		n++
		timeLeft -= s.step
	}
	s.steps += uint64(n)
	s.overtime = -timeLeft

	s.fraction = float64(s.step+timeLeft) / float64(s.step)
	target.Interpolate(s.fraction)
	return n
}
