// Package panzoom maintains a pan/zoom transform for a content layer shown
// inside a fixed-size viewport.
//
// The engine is driven by explicit input events rather than toolkit
// callbacks, so the same code backs the desktop client and the tests.
package panzoom

import "geoparty/pkg/geom"

const (
	DefaultMinScale = 1.0
	DefaultMaxScale = 6.0
	DefaultZoomStep = 0.12

	// DragThreshold is the pointer travel, in pixels on either axis, after
	// which a press counts as a drag instead of a click.
	DragThreshold = 2.0
)

// Transform is translate(TranslateX, TranslateY) · scale(Scale) with the
// origin at the content's top-left corner.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"tx"`
	TranslateY float64 `json:"ty"`
}

// Identity returns the untransformed state.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Translate returns the translation component as a point.
func (t Transform) Translate() geom.Point {
	return geom.Pt(t.TranslateX, t.TranslateY)
}

// ContentPoint maps a viewport-local point into the untransformed content frame.
func (t Transform) ContentPoint(p geom.Point) geom.Point {
	return p.Sub(t.Translate()).Mul(1 / t.Scale)
}

// ViewportPoint maps a content-frame point to where it appears in the viewport.
func (t Transform) ViewportPoint(c geom.Point) geom.Point {
	return c.Mul(t.Scale).Add(t.Translate())
}

// Affine returns t as a matrix.
func (t Transform) Affine() geom.Affine {
	return geom.Translate(t.TranslateX, t.TranslateY).Mul(geom.Scale(t.Scale))
}

// Patch carries the fields SetTransform should overwrite; nil fields are kept.
type Patch struct {
	Scale      *float64
	TranslateX *float64
	TranslateY *float64
}

// Value returns a pointer to v, for building a Patch inline.
func Value(v float64) *float64 {
	return &v
}
