package core

import (
	"fmt"
	"math"
)

// Vec is an immutable 2D vector. Every operation returns a new value.
type Vec struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vec{}

// V creates a vector from its components.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// FromAngle returns a vector with the given direction (radians) and magnitude.
func FromAngle(angle, mag float64) Vec {
	return Vec{X: math.Cos(angle) * mag, Y: math.Sin(angle) * mag}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mult scales v by s.
func (v Vec) Mult(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Div divides v by s.
func (v Vec) Div(s float64) Vec {
	return Vec{X: v.X / s, Y: v.Y / s}
}

// Neg returns -v.
func (v Vec) Neg() Vec {
	return Vec{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// MagSq returns the squared magnitude.
func (v Vec) MagSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Mag returns the magnitude.
func (v Vec) Mag() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether both components are zero.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Norm returns the unit vector in the direction of v.
// The zero vector has no direction; normalizing it panics.
func (v Vec) Norm() Vec {
	m := v.Mag()
	if m == 0 {
		panic("core: cannot normalize zero vector")
	}
	return Vec{X: v.X / m, Y: v.Y / m}
}

// Limit caps the magnitude of v at max. A non-positive max means no limit.
func (v Vec) Limit(max float64) Vec {
	if max <= 0 {
		return v
	}
	if m := v.MagSq(); m > max*max {
		return v.Mult(max / math.Sqrt(m))
	}
	return v
}

// DistSq returns the squared distance between v and o.
func (v Vec) DistSq(o Vec) float64 {
	return v.Sub(o).MagSq()
}

// Dist returns the distance between v and o.
func (v Vec) Dist(o Vec) float64 {
	return v.Sub(o).Mag()
}

// Lerp interpolates linearly from v to o by fraction f.
func (v Vec) Lerp(o Vec, f float64) Vec {
	return Vec{X: v.X + (o.X-v.X)*f, Y: v.Y + (o.Y-v.Y)*f}
}

// Angle returns the direction of v in radians.
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate rotates v by angle radians.
func (v Vec) Rotate(angle float64) Vec {
	s, c := math.Sincos(angle)
	return Vec{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// ClosestPointOnSegment returns the point on segment a-b closest to v.
func (v Vec) ClosestPointOnSegment(a, b Vec) Vec {
	ab := b.Sub(a)
	lenSq := ab.MagSq()
	if lenSq == 0 {
		return a
	}
	t := ClampF(v.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Mult(t))
}

// String implements fmt.Stringer.
func (v Vec) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}
