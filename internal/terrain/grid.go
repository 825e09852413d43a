package terrain

import (
	"fmt"
	"math/rand"
	"strings"
)

// Grid is a 2D array of cells. Zero is empty; any other value is solid.
type Grid struct {
	W, H  int
	Cells []uint8 // row-major, y*W + x
}

// NewGrid allocates an empty grid.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Cells: make([]uint8, w*h)}
}

// ParseGrid builds a grid from ASCII rows: '#' is solid, anything else is
// empty. Rows shorter than the longest are padded with empty cells.
func ParseGrid(rows []string) *Grid {
	w := 0
	for _, row := range rows {
		w = max(w, len(row))
	}
	g := NewGrid(w, len(rows))
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			if row[x] == '#' {
				g.Cells[y*w+x] = 1
			}
		}
	}
	return g
}

// InBounds reports whether (x, y) is inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the raw cell value, or 0 when out of bounds.
func (g *Grid) At(x, y int) uint8 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.Cells[y*g.W+x]
}

// Set writes a raw cell value. Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, v uint8) {
	if !g.InBounds(x, y) {
		return
	}
	g.Cells[y*g.W+x] = v
}

// Solid reports whether the in-bounds cell (x, y) is solid.
func (g *Grid) Solid(x, y int) bool {
	return g.At(x, y) != 0
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, Cells: make([]uint8, len(g.Cells))}
	copy(c.Cells, g.Cells)
	return c
}

// Equal reports whether two grids have identical dimensions and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g.W != o.W || g.H != o.H {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

// CountSolid returns the number of solid cells.
func (g *Grid) CountSolid() int {
	n := 0
	for _, c := range g.Cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// FindEmptyCells lists the coordinates of every empty cell in row-major
// order. Callers shuffle the result to sample spawn points without
// replacement.
func (g *Grid) FindEmptyCells() []Cell {
	cells := make([]Cell, 0, len(g.Cells)-g.CountSolid())
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.Cells[y*g.W+x] == 0 {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// Shuffle permutes cells in place (Fisher-Yates).
func Shuffle(cells []Cell, rng *rand.Rand) {
	for i := len(cells) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cells[i], cells[j] = cells[j], cells[i]
	}
}

// String renders the grid as ASCII rows ('#' solid, '.' empty).
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.W + 1) * g.H)
	for y := 0; y < g.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < g.W; x++ {
			if g.Solid(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

func (g *Grid) validate() error {
	if g.W <= 0 || g.H <= 0 {
		return fmt.Errorf("terrain: invalid grid size %dx%d", g.W, g.H)
	}
	if len(g.Cells) != g.W*g.H {
		return fmt.Errorf("terrain: grid has %d cells, expected %d", len(g.Cells), g.W*g.H)
	}
	return nil
}
