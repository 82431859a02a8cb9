// Package mapper converts points between image space, render space and the
// screen.
package mapper

import (
	"geoparty/pkg/geom"
	"geoparty/pkg/panzoom"
)

// Box maps between the natural pixels of an image and the box it is
// displayed in, each axis scaled independently.
type Box struct {
	Natural  geom.Size `json:"natural"`
	Rendered geom.Size `json:"rendered"`
}

// Valid reports whether both sizes are known.
func (b Box) Valid() bool {
	return !b.Natural.Empty() && !b.Rendered.Empty()
}

// ToRender places an image point in the rendered box, clamped to its edges.
func (b Box) ToRender(p geom.Point) (geom.Point, bool) {
	if !b.Valid() {
		return geom.Point{}, false
	}
	return geom.Point{
		X: geom.Clamp(p.X*b.Rendered.W/b.Natural.W, 0, b.Rendered.W),
		Y: geom.Clamp(p.Y*b.Rendered.H/b.Natural.H, 0, b.Rendered.H),
	}, true
}

// ToImage maps a rendered-box point back to rounded image pixels.
func (b Box) ToImage(p geom.Point) (geom.Point, bool) {
	if !b.Valid() {
		return geom.Point{}, false
	}
	return RoundPoint(geom.Point{
		X: p.X * b.Natural.W / b.Rendered.W,
		Y: p.Y * b.Natural.H / b.Rendered.H,
	}), true
}

// Fit returns the box that shows natural at most maxWidth wide, keeping the
// aspect ratio. Images are never upscaled.
func Fit(natural geom.Size, maxWidth float64) Box {
	b := Box{Natural: natural, Rendered: natural}
	if natural.Empty() || maxWidth <= 0 || natural.W <= maxWidth {
		return b
	}
	b.Rendered = geom.Sz(maxWidth, RoundPoint(geom.Pt(0, natural.H*maxWidth/natural.W)).Y)
	return b
}

// ContentPoint converts a viewport-local pointer position into the content
// frame of a layer transformed by t.
func ContentPoint(pointer geom.Point, t panzoom.Transform) geom.Point {
	if t.Scale == 0 {
		return pointer
	}
	return t.ContentPoint(pointer)
}

// RoundPoint rounds to whole image pixels. Every stored or compared image
// point passes through here.
func RoundPoint(p geom.Point) geom.Point {
	return p.Round()
}
