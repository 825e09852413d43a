package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/registry"
	"github.com/vovakirdan/cavern/internal/storage"
)

// SessionModel is one player's visit: the title menu, and from there a game
// or the scoreboard, each returning to a fresh menu when left. The SSH
// server runs one per connection and `cavern menu` runs one locally.
//
// The child screens end themselves with tea.Quit; the session drops those
// commands and only quits when the player asks to.
type SessionModel struct {
	store  *storage.Store
	config core.RuntimeConfig
	player string
	opts   []ModelOption

	menu  MenuModel
	game  *Model
	board *ScoreboardModel
	done  bool
}

// NewSessionModel starts at the menu. opts apply to every game started
// from it.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, player string, opts ...ModelOption) SessionModel {
	return SessionModel{
		store:  store,
		config: cfg,
		player: player,
		opts:   opts,
		menu:   NewMenuModel(store, cfg),
	}
}

func (m SessionModel) Init() tea.Cmd {
	return nil
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW, m.config.ScreenH = ws.Width, ws.Height
	}

	switch {
	case m.game != nil:
		next, cmd := m.game.Update(msg)
		g := next.(Model)
		switch {
		case g.IsQuitting():
			return m.quit()
		case g.BackToMenu():
			return m.toMenu()
		}
		m.game = &g
		return m, cmd

	case m.board != nil:
		next, cmd := m.board.Update(msg)
		b := next.(ScoreboardModel)
		switch {
		case b.IsQuitting():
			return m.quit()
		case b.IsGoingBack():
			return m.toMenu()
		}
		m.board = &b
		return m, cmd
	}

	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)
	switch {
	case m.menu.IsQuitting():
		return m.quit()
	case m.menu.WantsScoreboard():
		b := NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.board = &b
		return m, nil
	case m.menu.Selected() != nil:
		return m.play(m.menu.Selected().GameID)
	}
	return m, cmd
}

func (m SessionModel) play(id string) (tea.Model, tea.Cmd) {
	game, err := registry.Create(id)
	if err != nil {
		// The menu only lists registered games; rebuild it if one vanished.
		return m.toMenu()
	}
	opts := append([]ModelOption{WithPlayer(m.player), embedded()}, m.opts...)
	g := NewModel(game, m.store, m.config, opts...)
	m.game = &g
	return m, g.Init()
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.game, m.board = nil, nil
	m.menu = NewMenuModel(m.store, m.config)
	return m, nil
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.done = true
	return m, tea.Quit
}

func (m SessionModel) View() string {
	switch {
	case m.done:
		return ""
	case m.game != nil:
		return m.game.View()
	case m.board != nil:
		return m.board.View()
	}
	return m.menu.View()
}

// RunSession runs a session in the local terminal.
func RunSession(store *storage.Store, cfg core.RuntimeConfig, player string, opts ...ModelOption) error {
	_, err := tea.NewProgram(
		NewSessionModel(store, cfg, player, opts...),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	).Run()
	return err
}
