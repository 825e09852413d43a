package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cavern/internal/storage"
	"github.com/vovakirdan/cavern/internal/terrain"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestScoreboardListsAndDeletesCaves(t *testing.T) {
	store := openTestStore(t)
	cave := terrain.FromGrid(terrain.ParseGrid([]string{"###", "#.#", "###"}), 1)
	for _, name := range []string{"alpha", "beta"} {
		if err := store.SaveTerrain(name, 7, cave); err != nil {
			t.Fatal(err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if !m.onCaves() {
		t.Fatal("expected the caves board when no games are registered")
	}
	view := m.View()
	for _, want := range []string{"SAVED CAVES", "alpha", "beta", "3x3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(ScoreboardModel)
	if len(m.caves) != 1 {
		t.Fatalf("caves after delete = %d, expected 1", len(m.caves))
	}

	caves, err := store.ListTerrains()
	if err != nil {
		t.Fatal(err)
	}
	if len(caves) != 1 {
		t.Errorf("stored caves = %d, expected 1", len(caves))
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 40, 20)
	if !strings.Contains(m.View(), "No saved caves") {
		t.Errorf("expected empty message, got %q", m.View())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(ScoreboardModel)
	if m.err != nil {
		t.Errorf("delete with no store set err = %v", m.err)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ScoreboardModel)
	if !m.IsGoingBack() || cmd == nil {
		t.Error("esc should go back")
	}
	if m.View() != "" {
		t.Error("view should be empty after leaving")
	}
}
