package cave

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/sim"
	"github.com/vovakirdan/cavern/internal/terrain"
)

// Screen layout
const (
	cellCols   = 2 // screen columns per tile
	hudRows    = 2
	minScreenW = 30
	minScreenH = 10
)

// Block glyphs by remaining durability.
const (
	GlyphRock   = '█'
	GlyphHard   = '▓'
	GlyphMedium = '▒'
	GlyphSoft   = '░'
	BorderHoriz = '─'
)

// drawOrder layers entities: later kinds are drawn on top.
var drawOrder = map[sim.Kind]int{
	sim.KindExplosion:   0,
	sim.KindGem:         1,
	sim.KindPowerUp:     1,
	sim.KindBoulder:     2,
	sim.KindBomb:        3,
	sim.KindEnemy:       4,
	sim.KindEnemyBullet: 5,
	sim.KindHeroBullet:  5,
	sim.KindHero:        6,
}

// Render draws the cave around the hero, the HUD, and overlays.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
		return
	}
	if g.err != nil {
		panel(dst, "Cannot start the cave", g.err.Error())
		return
	}
	if g.world == nil {
		return
	}

	view := g.viewport(dst)
	g.renderTerrain(dst, view)
	g.renderEntities(dst, view)
	g.renderHUD(dst)
	g.renderOverlay(dst)
}

// viewport is the visible tile window. X and Y are the tile at the top-left
// screen cell below the HUD.
type viewport struct {
	X, Y int
	W, H int
}

// viewport centers the view on the hero's interpolated position, keeping it
// inside the cave when the cave is larger than the screen.
func (g *Game) viewport(dst *core.Screen) viewport {
	v := viewport{W: dst.Width() / cellCols, H: dst.Height() - hudRows}

	center := g.world.Focus()
	if e, ok := g.world.Lookup(g.level.heroHandle); ok {
		center = e.DrawPos()
	}
	cx, cy := g.world.CellOf(center)
	v.X = cx - v.W/2
	v.Y = cy - v.H/2

	t := g.world.Terrain()
	if t.Width() > v.W {
		v.X = core.Clamp(v.X, 0, t.Width()-v.W)
	} else {
		v.X = -(v.W - t.Width()) / 2
	}
	if t.Height() > v.H {
		v.Y = core.Clamp(v.Y, 0, t.Height()-v.H)
	} else {
		v.Y = -(v.H - t.Height()) / 2
	}
	return v
}

func (g *Game) renderTerrain(dst *core.Screen, v viewport) {
	t := g.world.Terrain()
	for sy := 0; sy < v.H; sy++ {
		for sx := 0; sx < v.W; sx++ {
			b, ok := t.Block(v.X+sx, v.Y+sy)
			if !ok {
				continue
			}
			r, c := blockLook(b)
			dst.SetCell(sx*cellCols, sy+hudRows, r, c)
			dst.SetCell(sx*cellCols+1, sy+hudRows, r, c)
		}
	}
}

// blockLook picks a glyph by durability and a color by collectible.
func blockLook(b terrain.Block) (rune, core.Color) {
	r := GlyphSoft
	switch {
	case b.Indestructible():
		return GlyphRock, core.ColorGray
	case b.Durability >= 3:
		r = GlyphHard
	case b.Durability == 2:
		r = GlyphMedium
	}
	switch b.Collectible {
	case terrain.CollectibleGold:
		return r, core.ColorYellow
	case terrain.CollectibleGem:
		return r, core.ColorCyan
	case terrain.CollectibleRelic:
		return r, core.ColorMagenta
	}
	return r, core.ColorBrown
}

// toScreen maps a world position to a screen cell. Tiles are two columns
// wide, so horizontal motion is drawn at half-tile resolution.
func (g *Game) toScreen(p core.Vec, v viewport) (int, int) {
	ts := g.world.Config().TileSize
	x := int(math.Floor(p.X/ts*cellCols)) - v.X*cellCols
	y := int(math.Floor(p.Y/ts)) - v.Y + hudRows
	return x, y
}

// playfield is the screen area below the HUD.
func playfield(dst *core.Screen) core.Rect {
	return core.NewRect(0, hudRows, dst.Width(), dst.Height()-hudRows)
}

func (g *Game) renderEntities(dst *core.Screen, v viewport) {
	field := playfield(dst)
	for _, p := range g.world.Particles() {
		a := p.Look()
		x, y := g.toScreen(p.DrawPos(), v)
		if field.Contains(x, y) {
			dst.SetCell(x, y, a.Rune, a.Color)
		}
	}

	ents := append([]*sim.Entity(nil), g.world.Entities()...)
	sort.SliceStable(ents, func(i, j int) bool {
		return drawOrder[ents[i].Kind] < drawOrder[ents[j].Kind]
	})
	for _, e := range ents {
		a := e.Look()
		if e.Kind == sim.KindExplosion {
			g.renderBlast(dst, v, e, a)
			continue
		}
		x, y := g.toScreen(e.DrawPos(), v)
		if field.Contains(x, y) {
			dst.SetCell(x, y, a.Rune, a.Color)
		}
	}
}

// renderBlast fills the explosion circle.
func (g *Game) renderBlast(dst *core.Screen, v viewport, e *sim.Entity, a sim.Appearance) {
	blast, ok := e.Behavior.(*Explosion)
	if !ok {
		return
	}
	r := blast.Radius
	ts := g.world.Config().TileSize
	field := playfield(dst)
	x0, y0 := g.world.CellOf(e.Pos.Sub(core.V(r, r)))
	x1, y1 := g.world.CellOf(e.Pos.Add(core.V(r, r)))
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if g.world.CellCenter(cx, cy).Dist(e.Pos) > r+ts*0.5 || g.world.IsSolid(cx, cy) {
				continue
			}
			sx, sy := (cx-v.X)*cellCols, cy-v.Y+hudRows
			if field.Contains(sx, sy) {
				dst.SetCell(sx, sy, a.Rune, a.Color)
				dst.SetCell(sx+1, sy, a.Rune, a.Color)
			}
		}
	}
}

// renderHUD draws health, bombs, score, depth, and active power-ups.
func (g *Game) renderHUD(dst *core.Screen) {
	h := g.hero
	health := fmt.Sprintf("HP %d/%d", int(math.Ceil(h.Health)), int(math.Ceil(h.MaxHealth)))
	c := core.ColorBrightGreen
	if h.Health < h.MaxHealth/3 {
		c = core.ColorBrightRed
	}
	dst.DrawTextColor(1, 0, health, c)
	dst.DrawText(len(health)+3, 0, fmt.Sprintf("Bombs %d", h.Bombs))

	dst.DrawTextCentered(0, fmt.Sprintf("Score: %d", h.Score))

	depth := fmt.Sprintf("Depth: %d", g.depth)
	dst.DrawText(dst.Width()-len(depth)-1, 0, depth)

	if s := g.powerUpString(); s != "" {
		dst.DrawText(1, 1, s)
	} else {
		for x := range dst.Width() {
			dst.Set(x, 1, BorderHoriz)
		}
	}
}

// powerUpString lists collected power-ups with their magnitudes, in
// catalog order.
func (g *Game) powerUpString() string {
	var parts []string
	for _, t := range g.cfg.PowerUps.Types {
		if m := g.hero.PowerUps[t.Name]; m > 0 {
			parts = append(parts, fmt.Sprintf("%s%d", t.Symbol, m))
		}
	}
	return strings.Join(parts, " ")
}

// renderOverlay draws pause and game over panels.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch g.state {
	case StatePaused:
		panel(dst, "PAUSED", "P to resume")
	case StateGameOver:
		panel(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  Depth: %d", g.hero.Score, g.depth),
			"R to restart, Q to quit")
	}
}

// panel draws lines centered in a framed box in the middle of the screen.
func panel(dst *core.Screen, lines ...string) {
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w = min(w+4, dst.Width())
	h := len(lines) + 2
	r := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	dst.DrawRect(r, ' ')
	dst.DrawBox(r)
	for i, l := range lines {
		dst.DrawTextCentered(r.Y+1+i, l)
	}
}
