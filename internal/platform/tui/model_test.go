package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/storage"
)

// stubGame records what the host feeds it.
type stubGame struct {
	resets int
	frames []core.InputFrame
	state  core.GameState
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.state = core.GameState{Depth: 1}
}

func (g *stubGame) Update(_ time.Time, in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, in)
	return core.StepResult{State: g.state, Steps: 1}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) State() core.GameState { return g.state }

func newStubModel(t *testing.T, opts ...ModelOption) (Model, *stubGame) {
	t.Helper()
	g := &stubGame{}
	m := NewModel(g, nil, core.RuntimeConfig{ScreenW: 20, ScreenH: 5, TickRate: 60, Seed: 1}, opts...)
	m.Init()
	return m, g
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestModelFeedsHeldKeys(t *testing.T) {
	m, g := newStubModel(t)

	m = send(t, m, runeKey("d"))
	m = send(t, m, runeKey("b"))
	now := time.Now()
	m = send(t, m, TickMsg(now))
	send(t, m, TickMsg(now.Add(time.Second)))

	if len(g.frames) != 2 {
		t.Fatalf("game saw %d frames, expected 2", len(g.frames))
	}
	if !g.frames[0].Has(core.ActionRight) || !g.frames[0].Has(core.ActionBomb) {
		t.Errorf("first frame = %v, expected right and bomb", g.frames[0].Actions)
	}
	if len(g.frames[1].Actions) != 0 {
		t.Errorf("second frame = %v, expected no input after the hold window", g.frames[1].Actions)
	}
}

func TestModelBlurReleasesKeys(t *testing.T) {
	m, g := newStubModel(t)

	m = send(t, m, runeKey("w"))
	m = send(t, m, tea.BlurMsg{})
	send(t, m, TickMsg(time.Now()))

	if g.frames[0].Has(core.ActionUp) {
		t.Error("up should be released on focus loss")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newStubModel(t)

	next, cmd := m.Update(runeKey("q"))
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if next.(Model).View() != "" {
		t.Error("a quitting model should render nothing")
	}
}

func TestModelSavesScoreOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()

	g := &stubGame{}
	m := NewModel(g, store, core.RuntimeConfig{ScreenW: 20, ScreenH: 5, Seed: 1}, WithPlayer("ada"))
	m.Init()

	g.state = core.GameState{Score: 120, Depth: 3, GameOver: true}
	now := time.Now()
	m = send(t, m, TickMsg(now))
	m = send(t, m, TickMsg(now.Add(time.Millisecond)))

	scores, err := store.AllScores("stub")
	if err != nil {
		t.Fatalf("AllScores() error: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("saved %d scores, expected 1", len(scores))
	}
	if s := scores[0]; s.Score != 120 || s.Depth != 3 || s.Player != "ada" {
		t.Errorf("saved %+v", s)
	}

	// Restart starts a new run and re-arms the save.
	m = send(t, m, runeKey("r"))
	send(t, m, TickMsg(now.Add(2*time.Millisecond)))
	if g.resets != 2 {
		t.Errorf("resets = %d, expected 2", g.resets)
	}
}

func TestModelBackToMenu(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		m, g := newStubModel(t, embedded())
		g.state.GameOver = true
		m = send(t, m, TickMsg(time.Now()))
		m = send(t, m, runeKey("b"))
		if !m.BackToMenu() || m.IsQuitting() {
			t.Error("b after game over should return to the menu")
		}
	})

	t.Run("standalone", func(t *testing.T) {
		m, g := newStubModel(t)
		g.state.GameOver = true
		m = send(t, m, TickMsg(time.Now()))
		m = send(t, m, runeKey("b"))
		if !m.IsQuitting() {
			t.Error("b after game over should quit a standalone game")
		}
	})

	t.Run("bomb while playing", func(t *testing.T) {
		m, _ := newStubModel(t, embedded())
		m = send(t, m, runeKey("b"))
		if m.BackToMenu() {
			t.Error("b during play is a bomb, not back")
		}
	})
}

func TestModelResizeKeepsGame(t *testing.T) {
	m, g := newStubModel(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})

	if g.resets != 1 {
		t.Errorf("resize reset the game (%d resets)", g.resets)
	}
	if !strings.Contains(m.View(), "stub") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.SetCell(0, 0, '@', core.ColorBrightYellow)
	s.SetCell(1, 0, '#', core.ColorBrown)
	s.DrawText(0, 1, "ok")

	out := RenderScreen(s)
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 2 lines, got %q", out)
	}
	for _, want := range []string{"@", "#", "ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() missing %q in %q", want, out)
		}
	}
}

func TestSessionFlow(t *testing.T) {
	s := NewSessionModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1}, "ada")

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.board == nil {
		t.Fatal("tab should open the scoreboard")
	}
	// No games are registered in this package, so only saved caves show.
	if !strings.Contains(s.View(), "SAVED CAVES") {
		t.Errorf("scoreboard view = %q", s.View())
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEscape})
	s = next.(SessionModel)
	if s.board != nil || s.done {
		t.Error("esc should return to the menu")
	}
	if !strings.Contains(s.View(), "High scores") {
		t.Errorf("menu view = %q", s.View())
	}

	// With no games registered the first entry is the scoreboard.
	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.board == nil {
		t.Error("enter on High scores should open the scoreboard")
	}
}

func TestMenuWrapsAndQuits(t *testing.T) {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	last := len(m.items) - 1

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(MenuModel)
	if m.cursor != last || !m.items[m.cursor].quit {
		t.Fatalf("cursor = %d, expected the Quit entry at %d", m.cursor, last)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if !m.IsQuitting() || cmd == nil || m.Selected() != nil {
		t.Error("enter on Quit should quit without selecting a game")
	}
}
