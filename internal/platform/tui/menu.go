package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/registry"
	"github.com/vovakirdan/cavern/internal/storage"
)

// MenuItem is one line of the title menu: a game to play or a screen to open.
type MenuItem struct {
	GameID   string // empty for non-game entries
	Title    string
	Best     int
	MaxDepth int

	scores bool
	quit   bool
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("130"))
	menuTagStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	menuCursor     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDim        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const menuBanner = "▄▀▀ ▄▀▄ █ █ ██▀ █▀▄ █▄ █\n▀▄▄ █▀█ ▀▄▀ █▄▄ █▀▄ █ ▀█"

// MenuModel is the title menu.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel lists the registered games, with their records when store
// is available, followed by the scoreboard and quit entries.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	var items []MenuItem
	for _, g := range registry.List() {
		item := MenuItem{GameID: g.ID, Title: "Play " + g.Title}
		if store != nil {
			if stats, err := store.GetGameStats(g.ID); err == nil {
				item.Best, item.MaxDepth = stats.HighScore, stats.MaxDepth
			}
		}
		items = append(items, item)
	}
	items = append(items,
		MenuItem{Title: "High scores", scores: true},
		MenuItem{Title: "Quit", quit: true},
	)

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles navigation and selection.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)

	case MenuActionDown:
		m.cursor = (m.cursor + 1) % len(m.items)

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit

	case MenuActionSelect:
		item := m.items[m.cursor]
		switch {
		case item.quit:
			m.quitting = true
		case item.scores:
			m.openScoreboard = true
		default:
			m.selected = &item
		}
		return m, tea.Quit
	}
	return m, nil
}

// View renders the banner, the entries and a key hint.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	if m.width >= 30 {
		lines = append(lines, menuTitleStyle.Render(menuBanner))
	} else {
		lines = append(lines, menuTitleStyle.Render("C A V E R N"))
	}
	lines = append(lines, menuTagStyle.Render("dig deep, shoot straight"), "")

	for i, item := range m.items {
		label := item.Title
		if item.Best > 0 {
			label += menuDim.Render(fmt.Sprintf("  best %d, depth %d", item.Best, item.MaxDepth))
		}
		if i == m.cursor {
			lines = append(lines, menuCursor.Render("> ")+menuCursor.Render(item.Title)+strings.TrimPrefix(label, item.Title))
		} else {
			lines = append(lines, "  "+label)
		}
	}

	lines = append(lines, "",
		menuDim.Render("up/down move  enter select  tab scores  q quit"),
		menuDim.Render("in game: wasd move  ijkl aim  space fire  b bomb  p pause"),
	)

	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width <= 0 || m.height <= 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// Selected returns the chosen game, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

