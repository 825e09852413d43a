package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cavern/internal/registry"
	"github.com/vovakirdan/cavern/internal/storage"
)

const (
	boardRows     = 100
	cavesTabTitle = "Saved caves"
)

type boardKeys struct {
	Scroll key.Binding
	Next   key.Binding
	Prev   key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k boardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Next, k.Prev, k.Delete, k.Back, k.Quit}
}

func (k boardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newBoardKeys() boardKeys {
	return boardKeys{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next board")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev board")),
		Delete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete cave"), key.WithDisabled()),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// scoreTab is one page of the scoreboard: a game's scores or the saved caves.
type scoreTab struct {
	id    string
	title string
	caves bool
}

var (
	boardTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardTab    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardActive = boardTab.Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("94"))
	boardFrame  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	boardEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
	boardDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardError  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// ScoreboardModel pages through the score tables of every registered game
// and the list of saved caves.
type ScoreboardModel struct {
	store *storage.Store
	tabs  []scoreTab
	tab   int

	scores []storage.ScoreEntry
	stats  *storage.GameStats
	caves  []storage.TerrainEntry
	err    error

	table table.Model
	help  help.Model
	keys  boardKeys

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel opens on the first game's scores. A nil store shows
// every board empty.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	var tabs []scoreTab
	for _, g := range registry.List() {
		tabs = append(tabs, scoreTab{id: g.ID, title: g.Title})
	}
	tabs = append(tabs, scoreTab{title: cavesTabTitle, caves: true})

	m := ScoreboardModel{
		store:  store,
		tabs:   tabs,
		help:   help.New(),
		keys:   newBoardKeys(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

func (m ScoreboardModel) onCaves() bool {
	return m.tabs[m.tab].caves
}

// load fetches the selected board and rebuilds the table around it.
func (m *ScoreboardModel) load() {
	m.scores, m.stats, m.caves, m.err = nil, nil, nil, nil
	m.keys.Delete.SetEnabled(m.onCaves())
	if m.store != nil {
		if t := m.tabs[m.tab]; t.caves {
			m.caves, m.err = m.store.ListTerrains()
		} else if m.scores, m.err = m.store.TopScores(t.id, boardRows); m.err == nil {
			m.stats, m.err = m.store.GetGameStats(t.id)
		}
	}
	m.layout()
}

func (m ScoreboardModel) columns() []table.Column {
	if m.onCaves() {
		return []table.Column{
			{Title: "Name", Width: 16},
			{Title: "Size", Width: 9},
			{Title: "Seed", Width: 20},
			{Title: "Saved", Width: 12},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 8},
		{Title: "Depth", Width: 6},
		{Title: "Player", Width: 12},
		{Title: "Date", Width: 12},
	}
}

func (m ScoreboardModel) rows() []table.Row {
	if m.onCaves() {
		rows := make([]table.Row, 0, len(m.caves))
		for _, c := range m.caves {
			rows = append(rows, table.Row{
				c.Name,
				fmt.Sprintf("%dx%d", c.Width, c.Height),
				strconv.FormatInt(c.Seed, 10),
				c.CreatedAt.Format("Jan 02 15:04"),
			})
		}
		return rows
	}
	rows := make([]table.Row, 0, len(m.scores))
	for i, s := range m.scores {
		player := s.Player
		if player == "" {
			player = "-"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Score),
			strconv.Itoa(s.Depth),
			player,
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	return rows
}

// layout sizes the table to the window. Spare width goes to the name or
// player column.
func (m *ScoreboardModel) layout() {
	cols := m.columns()
	grow := 3
	if m.onCaves() {
		grow = 0
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	if spare := m.width - 8 - used; spare > 0 {
		cols[grow].Width += min(spare, 16)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).
		BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).BorderBottom(true)
	styles.Selected = styles.Selected.Bold(false).
		Foreground(lipgloss.Color("229")).Background(lipgloss.Color("94"))

	m.table = table.New(
		table.WithColumns(cols),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
		table.WithStyles(styles),
	)
	m.help.Width = m.width
}

// Init does nothing; the boards are loaded on construction.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update switches boards, scrolls the table and deletes saved caves.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			m.deleteSelected()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ScoreboardModel) deleteSelected() {
	row := m.table.SelectedRow()
	if m.store == nil || row == nil {
		return
	}
	cursor := m.table.Cursor()
	if err := m.store.DeleteTerrain(row[0]); err != nil {
		m.err = err
		return
	}
	m.load()
	if len(m.caves) > 0 {
		m.table.SetCursor(min(cursor, len(m.caves)-1))
	}
}

// View renders the board tabs, the selected table and the key help.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "SAVED CAVES"
	if !m.onCaves() {
		title = "HIGH SCORES - " + m.tabs[m.tab].title
	}

	parts := []string{boardTitle.Render(title), "", m.tabLine(), "", boardFrame.Render(m.body())}
	if line := m.summary(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, "", m.help.View(m.keys))

	body := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.width <= 0 {
		return body
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
}

// tabLine lists the boards, or only the current one between arrows when
// they do not fit.
func (m ScoreboardModel) tabLine() string {
	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tab {
			tabs[i] = boardActive.Render(t.title)
		} else {
			tabs[i] = boardTab.Render(t.title)
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.width > 0 && lipgloss.Width(line) > m.width-4 {
		return "< " + boardActive.Render(m.tabs[m.tab].title) + " >"
	}
	return line
}

func (m ScoreboardModel) body() string {
	switch {
	case m.err != nil:
		return boardError.Render("Could not load board: " + m.err.Error())
	case m.onCaves() && len(m.caves) == 0:
		return boardEmpty.Render("No saved caves.\nUse `cavern terrain save` to keep one.")
	case !m.onCaves() && len(m.scores) == 0:
		return boardEmpty.Render("No scores recorded yet.\nHow deep can you go?")
	}
	return m.table.View()
}

func (m ScoreboardModel) summary() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return boardDim.Render(fmt.Sprintf("best %d  deepest %d  runs %d  average %.0f",
		m.stats.HighScore, m.stats.MaxDepth, m.stats.GamesCount, m.stats.AvgScore))
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scoreboard on its own. goBack is false when the
// user quit rather than stepping back.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, _ := final.(ScoreboardModel)
	return m.IsGoingBack(), nil
}

