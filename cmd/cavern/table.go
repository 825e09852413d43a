package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
	tableFirst  = tableCell.Foreground(lipgloss.Color("11"))
)

// printTable prints rows under headers. The first data row is highlighted
// when highlightFirst is set, for leaderboards.
func printTable(headers []string, rows [][]string, highlightFirst bool) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeader
			case row == 0 && highlightFirst:
				return tableFirst
			}
			return tableCell
		})
	fmt.Println(t.Render())
}
