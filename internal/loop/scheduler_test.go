package loop

import (
	"math/rand"
	"testing"
	"time"
)

// mover is a one-dimensional body moving one unit per step.
type mover struct {
	pos, prev, draw float64
	steps           int
	fractions       []float64
}

func (m *mover) Step() {
	m.pos++
	m.steps++
}

func (m *mover) SnapshotPositions() {
	m.prev = m.pos
}

func (m *mover) Interpolate(f float64) {
	m.draw = m.prev + (m.pos-m.prev)*f
	m.fractions = append(m.fractions, f)
}

func checkBounds(t *testing.T, s *Scheduler, m *mover, frame int) {
	t.Helper()
	f := s.Fraction()
	if f <= 0 || f > 1 {
		t.Fatalf("frame %d: fraction %v outside (0, 1]", frame, f)
	}
	lo, hi := min(m.prev, m.pos), max(m.prev, m.pos)
	if m.draw < lo || m.draw > hi {
		t.Fatalf("frame %d: draw %v outside [%v, %v]", frame, m.draw, lo, hi)
	}
}

func TestFirstFrameStartsClock(t *testing.T) {
	s := New(60, 0)
	m := &mover{}
	if n := s.Frame(time.Unix(100, 0), m); n != 0 {
		t.Errorf("first Frame() ran %d steps, expected 0", n)
	}
	if s.Fraction() != 1 {
		t.Errorf("Fraction() = %v, expected 1", s.Fraction())
	}
}

func TestFrameRunsWholeSteps(t *testing.T) {
	s := New(10, time.Second) // 100ms steps
	m := &mover{}
	start := time.Unix(0, 0)
	s.Frame(start, m)

	tests := []struct {
		at       time.Duration
		steps    int
		fraction float64
	}{
		{250 * time.Millisecond, 3, 0.5}, // 3 steps, 50ms ahead
		{300 * time.Millisecond, 0, 1},   // caught up exactly
		{310 * time.Millisecond, 1, 0.1}, // 1 step, 90ms ahead
		{360 * time.Millisecond, 0, 0.6}, // still 40ms ahead
		{500 * time.Millisecond, 1, 1},   // 140ms passes, 100ms owed
	}

	for _, tt := range tests {
		n := s.Frame(start.Add(tt.at), m)
		if n != tt.steps {
			t.Errorf("Frame(%v) ran %d steps, expected %d", tt.at, n, tt.steps)
		}
		if d := s.Fraction() - tt.fraction; d > 1e-9 || d < -1e-9 {
			t.Errorf("Frame(%v) fraction = %v, expected %v", tt.at, s.Fraction(), tt.fraction)
		}
	}
	if m.steps != 5 || s.Steps() != 5 {
		t.Errorf("total steps = %d/%d, expected 5", m.steps, s.Steps())
	}
}

func TestLargeGapIsClamped(t *testing.T) {
	s := New(50, 250*time.Millisecond)
	m := &mover{}
	start := time.Unix(0, 0)
	s.Frame(start, m)

	n := s.Frame(start.Add(time.Hour), m)
	// 250ms of 20ms steps.
	if n != 13 {
		t.Errorf("Frame() after a long gap ran %d steps, expected 13", n)
	}
	checkBounds(t, s, m, 1)
}

func TestSubStepGap(t *testing.T) {
	s := New(60, 0)
	m := &mover{}
	start := time.Unix(0, 0)
	s.Frame(start, m)
	s.Frame(start.Add(20*time.Millisecond), m)

	steps := m.steps
	n := s.Frame(start.Add(21*time.Millisecond), m)
	if n != 0 || m.steps != steps {
		t.Errorf("sub-step frame ran %d steps", n)
	}
	checkBounds(t, s, m, 2)
}

func TestInterpolationBounds(t *testing.T) {
	s := New(60, 250*time.Millisecond)
	m := &mover{}
	rng := rand.New(rand.NewSource(11))
	now := time.Unix(0, 0)

	for frame := 0; frame < 5000; frame++ {
		switch rng.Intn(10) {
		case 0:
			now = now.Add(time.Duration(rng.Intn(5)) * time.Second)
		case 1, 2:
			now = now.Add(time.Duration(rng.Intn(3000)) * time.Microsecond)
		default:
			now = now.Add(time.Duration(5+rng.Intn(30)) * time.Millisecond)
		}
		s.Frame(now, m)
		checkBounds(t, s, m, frame)
	}
}

func TestStepRateTracksClock(t *testing.T) {
	s := New(50, 0) // 20ms steps
	m := &mover{}
	rng := rand.New(rand.NewSource(3))
	now := time.Unix(0, 0)
	s.Frame(now, m)

	var total time.Duration
	for total < 10*time.Second {
		d := time.Duration(1+rng.Intn(40)) * time.Millisecond
		now = now.Add(d)
		total += d
		s.Frame(now, m)
	}
	expected := int(total / (20 * time.Millisecond))
	if m.steps < expected || m.steps > expected+1 {
		t.Errorf("ran %d steps over %v, expected %d or %d", m.steps, total, expected, expected+1)
	}
}

func TestResetDropsPausedTime(t *testing.T) {
	s := New(60, time.Second)
	m := &mover{}
	start := time.Unix(0, 0)
	s.Frame(start, m)

	s.Reset(start.Add(10 * time.Minute))
	n := s.Frame(start.Add(10*time.Minute+time.Millisecond), m)
	if n != 1 {
		t.Errorf("Frame() after Reset ran %d steps, expected 1", n)
	}
}
