// Package overlay lays out guess and answer pins over a rendered map and keeps
// them a constant on-screen size while the map is zoomed.
package overlay

import (
	"image/color"
	"math"

	"geoparty/pkg/geom"
)

// Pin geometry, in render pixels at zoom 1.
const (
	DiscRadius    = 11.0
	DotRadius     = 4.0
	TailTop       = 11.0
	TailBottom    = 25.0
	TailHalfWidth = 6.0
	StarOuter     = 7.2
	StarInner     = 3.2
	StrokeWidth   = 2.0
	InnerStroke   = 1.0

	DiscCSS   = "rgba(255,255,255,0.98)"
	StrokeCSS = "rgba(16,24,40,0.18)"

	AnswerLabel = "Answer"
)

var (
	DiscRGBA   = color.NRGBA{R: 255, G: 255, B: 255, A: 250}
	StrokeRGBA = color.NRGBA{R: 16, G: 24, B: 40, A: 46}
)

type Kind int

const (
	KindGuess Kind = iota
	KindAnswer
)

// Marker is one pin. Anchor is the tip-less centre of the disc in render
// coordinates before any zoom compensation.
type Marker struct {
	Anchor geom.Point
	Label  string
	Kind   Kind
	CSS    string
	RGBA   color.NRGBA

	zoom float64
}

// NewPin returns a guess pin coloured for name.
func NewPin(anchor geom.Point, name string) *Marker {
	return &Marker{
		Anchor: anchor,
		Label:  name,
		Kind:   KindGuess,
		CSS:    geom.PlayerColor(name),
		RGBA:   geom.PlayerRGBA(name),
	}
}

// NewAnswerPin returns the red star pin.
func NewAnswerPin(anchor geom.Point) *Marker {
	return &Marker{
		Anchor: anchor,
		Label:  AnswerLabel,
		Kind:   KindAnswer,
		CSS:    geom.AnswerCSS,
		RGBA:   geom.AnswerRGBA,
	}
}

// Compensate counter-scales the marker around its anchor so it keeps its
// size while the layer is scaled by k. k == 1 or k <= 0 removes it.
func (m *Marker) Compensate(k float64) {
	if k == 1 || !(k > 0) {
		m.zoom = 0
		return
	}
	m.zoom = k
}

// Compensation returns the layer scale the marker is compensating for, or
// false when it has no transform.
func (m *Marker) Compensation() (float64, bool) {
	return m.zoom, m.zoom != 0
}

// Transform returns the marker's compensation matrix and whether one is set.
func (m *Marker) Transform() (geom.Affine, bool) {
	if m.zoom == 0 {
		return geom.Identity(), false
	}
	return geom.ScaleAbout(m.Anchor, 1/m.zoom), true
}

// Tail returns the triangle below the disc, in local marker coordinates.
func (m *Marker) Tail() [3]geom.Point {
	c := m.Anchor
	return [3]geom.Point{
		geom.Pt(c.X, c.Y+TailTop),
		geom.Pt(c.X-TailHalfWidth, c.Y+TailBottom),
		geom.Pt(c.X+TailHalfWidth, c.Y+TailBottom),
	}
}

// Star returns the ten vertices of the answer star, starting straight up.
func (m *Marker) Star() []geom.Point {
	pts := make([]geom.Point, 0, 10)
	for i := 0; i < 10; i++ {
		r := StarOuter
		if i%2 == 1 {
			r = StarInner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, geom.Pt(m.Anchor.X+r*math.Cos(a), m.Anchor.Y+r*math.Sin(a)))
	}
	return pts
}

// Bounds is the marker's box in layer coordinates, compensation included.
func (m *Marker) Bounds() geom.Rect {
	lo := geom.Pt(m.Anchor.X-DiscRadius, m.Anchor.Y-DiscRadius)
	hi := geom.Pt(m.Anchor.X+DiscRadius, m.Anchor.Y+TailBottom)
	if tr, ok := m.Transform(); ok {
		lo, hi = tr.Apply(lo), tr.Apply(hi)
	}
	return geom.Rect{Min: lo, Size: geom.Sz(hi.X-lo.X, hi.Y-lo.Y)}
}

// Contains reports whether p, in layer coordinates, falls on the disc or tail.
func (m *Marker) Contains(p geom.Point) bool {
	if tr, ok := m.Transform(); ok {
		inv, ok := tr.Invert()
		if !ok {
			return false
		}
		p = inv.Apply(p)
	}
	d := p.Sub(m.Anchor)
	if d.X*d.X+d.Y*d.Y <= DiscRadius*DiscRadius {
		return true
	}
	t := m.Tail()
	return inTriangle(p, t[0], t[1], t[2])
}

func inTriangle(p, a, b, c geom.Point) bool {
	cross := func(o, u, v geom.Point) float64 {
		return (u.X-o.X)*(v.Y-o.Y) - (u.Y-o.Y)*(v.X-o.X)
	}
	d1, d2, d3 := cross(p, a, b), cross(p, b, c), cross(p, c, a)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}
