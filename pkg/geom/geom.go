// Package geom holds the small coordinate types shared by the viewport packages.
package geom

import "math"

// Point is a position in whichever coordinate space the caller is working in.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul scales both components by k.
func (p Point) Mul(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Round rounds both components to the nearest integer, halves away from zero.
func (p Point) Round() Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}

// Size is a width/height pair in device-independent pixels.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Sz is shorthand for Size{W: w, H: h}.
func Sz(w, h float64) Size {
	return Size{W: w, H: h}
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return !(s.W > 0) || !(s.H > 0)
}

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	Min  Point
	Size Size
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Min.X+r.Size.W &&
		p.Y >= r.Min.Y && p.Y <= r.Min.Y+r.Size.H
}

// Local converts p into r's own frame.
func (r Rect) Local(p Point) Point {
	return p.Sub(r.Min)
}

// Clamp limits v to [lo, hi]. When hi < lo the result is lo.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
