package sph

import "math"

// Vec2 is a 2D vector in world space.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Add(b Vec2) Vec2           { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2           { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2      { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64        { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64              { return math.Hypot(a.X, a.Y) }
func (a Vec2) IsFinite() bool            { return isFinite(a.X) && isFinite(a.Y) }
func (a Vec2) Neg() Vec2                 { return Vec2{-a.X, -a.Y} }
func (a Vec2) Len2() float64             { return a.X*a.X + a.Y*a.Y }
func (a Vec2) DistanceTo(b Vec2) float64 { return a.Sub(b).Len() }

// Normalize returns the unit vector along a. The zero vector stays zero.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Reflect mirrors a about the plane with unit normal n: a - 2(a·n)n.
func (a Vec2) Reflect(n Vec2) Vec2 {
	return a.Sub(n.Scale(2 * a.Dot(n)))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
