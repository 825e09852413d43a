package sim

import (
	"math"

	"github.com/vovakirdan/cavern/internal/core"
)

// Box is an axis-aligned box centered on Center.
type Box struct {
	Center core.Vec
	W, H   float64
}

// Min returns the top-left corner.
func (b Box) Min() core.Vec {
	return core.V(b.Center.X-b.W/2, b.Center.Y-b.H/2)
}

// Max returns the bottom-right corner.
func (b Box) Max() core.Vec {
	return core.V(b.Center.X+b.W/2, b.Center.Y+b.H/2)
}

// Overlaps reports whether two boxes intersect. Touching edges count, so
// two zero-size boxes overlap only when their centers coincide.
func Overlaps(a, b Box) bool {
	return math.Abs(a.Center.X-b.Center.X) <= (a.W+b.W)/2 &&
		math.Abs(a.Center.Y-b.Center.Y) <= (a.H+b.H)/2
}

// penetration returns how deep a is into b on each axis. Both are positive
// only when the boxes properly intersect.
func penetration(a, b Box) (dx, dy, px, py float64) {
	dx = a.Center.X - b.Center.X
	dy = a.Center.Y - b.Center.Y
	px = (a.W+b.W)/2 - math.Abs(dx)
	py = (a.H+b.H)/2 - math.Abs(dy)
	return dx, dy, px, py
}

// MinimumTranslation returns the smallest push that moves a out of b along
// the axis of least penetration. When the depths tie both axes are pushed.
// It returns the zero vector when the boxes are apart or only touching.
// a is assumed not to enclose b.
func MinimumTranslation(a, b Box) core.Vec {
	dx, dy, px, py := penetration(a, b)
	if px <= 0 || py <= 0 {
		return core.Zero
	}

	sx, sy := 1.0, 1.0
	if dx < 0 {
		sx = -1
	}
	if dy < 0 {
		sy = -1
	}

	switch {
	case px < py:
		return core.V(sx*px, 0)
	case py < px:
		return core.V(0, sy*py)
	default:
		return core.V(sx*px, sy*py)
	}
}

// Separation returns the push that moves a out of b through one of b's
// open faces, preferring the shallowest. Faces of b that are not open are
// never pushed through, so a row of tiles acts as one flat surface. If no
// face is open the plain minimum translation is used. ok is false when the
// boxes do not properly intersect.
func Separation(a, b Box, open Sides) (push core.Vec, ok bool) {
	dx, dy, px, py := penetration(a, b)
	if px <= 0 || py <= 0 {
		return core.Zero, false
	}
	if open == NoSides {
		return MinimumTranslation(a, b), true
	}

	hw := (a.W + b.W) / 2
	hh := (a.H + b.H) / 2

	// Distance to travel to clear each face.
	bestX, okX := math.Inf(1), false
	if open.Has(SideLeft) {
		bestX, okX = -(hw + dx), true
	}
	if open.Has(SideRight) {
		if d := hw - dx; !okX || math.Abs(d) < math.Abs(bestX) {
			bestX, okX = d, true
		}
	}
	bestY, okY := math.Inf(1), false
	if open.Has(SideTop) {
		bestY, okY = -(hh + dy), true
	}
	if open.Has(SideBottom) {
		if d := hh - dy; !okY || math.Abs(d) < math.Abs(bestY) {
			bestY, okY = d, true
		}
	}

	switch {
	case okX && !okY:
		return core.V(bestX, 0), true
	case okY && !okX:
		return core.V(0, bestY), true
	}

	mx, my := math.Abs(bestX), math.Abs(bestY)
	switch {
	case mx < my:
		return core.V(bestX, 0), true
	case my < mx:
		return core.V(0, bestY), true
	default:
		return core.V(bestX, bestY), true
	}
}

// CellOf returns the tile containing pos.
func CellOf(pos core.Vec, tileSize float64) (int, int) {
	return core.FloorDiv(pos.X, tileSize), core.FloorDiv(pos.Y, tileSize)
}

// applyPush moves e by push and reflects the velocity components that were
// heading into the obstacle.
func applyPush(e *Entity, push core.Vec) {
	e.Pos = e.Pos.Add(push)
	if push.X != 0 && e.Vel.X*push.X < 0 {
		e.Vel.X = -e.Vel.X * e.Bounce
	}
	if push.Y != 0 && e.Vel.Y*push.Y < 0 {
		e.Vel.Y = -e.Vel.Y * e.Bounce
	}
}
