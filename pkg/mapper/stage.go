package mapper

import (
	"math"

	"geoparty/pkg/geom"
)

const (
	StageMinZoom  = 0.4
	StageMaxZoom  = 6.0
	WheelZoomRate = 0.0012
	ButtonZoomIn  = 1.2
	ButtonZoomOut = 0.8
)

// Stage fits an image into a viewport and applies zoom and pan on top of the
// fitted scale. Zoom 1 shows the whole image centred.
type Stage struct {
	Viewport geom.Size
	Natural  geom.Size
	Zoom     float64
	PanX     float64
	PanY     float64
	MinZoom  float64
	MaxZoom  float64
}

// NewStage returns a stage at zoom 1 with the default zoom bounds.
func NewStage(viewport, natural geom.Size) *Stage {
	return &Stage{
		Viewport: viewport,
		Natural:  natural,
		Zoom:     1,
		MinZoom:  StageMinZoom,
		MaxZoom:  StageMaxZoom,
	}
}

func (s *Stage) natural() geom.Size {
	n := s.Natural
	if !(n.W > 0) {
		n.W = 1
	}
	if !(n.H > 0) {
		n.H = 1
	}
	return n
}

// BaseScale is the scale at which the whole image fits the viewport.
func (s *Stage) BaseScale() float64 {
	n := s.natural()
	return math.Min(s.Viewport.W/n.W, s.Viewport.H/n.H)
}

// Scale is the effective image-to-screen scale.
func (s *Stage) Scale() float64 {
	return s.BaseScale() * s.Zoom
}

// RenderSize is the on-screen size of the image.
func (s *Stage) RenderSize() geom.Size {
	n := s.natural()
	k := s.Scale()
	return geom.Sz(n.W*k, n.H*k)
}

// TopLeft is where the image's origin lands on screen.
func (s *Stage) TopLeft() geom.Point {
	r := s.RenderSize()
	return geom.Pt((s.Viewport.W-r.W)/2+s.PanX, (s.Viewport.H-r.H)/2+s.PanY)
}

// ScreenToImage maps a screen point into image pixels, unrounded. It reports
// false while the viewport is empty and no image pixel is on screen.
func (s *Stage) ScreenToImage(p geom.Point) (geom.Point, bool) {
	k := s.Scale()
	if !(k > 0) || math.IsInf(k, 0) {
		return geom.Point{}, false
	}
	return p.Sub(s.TopLeft()).Mul(1 / k), true
}

// ImageToScreen maps image pixels to the screen.
func (s *Stage) ImageToScreen(p geom.Point) geom.Point {
	return p.Mul(s.Scale()).Add(s.TopLeft())
}

// ZoomAt zooms by exp(-deltaY*WheelZoomRate) keeping the image point under
// cursor fixed. It reports whether the zoom changed.
func (s *Stage) ZoomAt(cursor geom.Point, deltaY float64) bool {
	return s.zoomAround(cursor, s.Zoom*math.Exp(-deltaY*WheelZoomRate))
}

// ZoomBy steps the zoom in (dir > 0) or out (dir < 0) around the viewport centre.
func (s *Stage) ZoomBy(dir int) bool {
	factor := ButtonZoomIn
	if dir < 0 {
		factor = ButtonZoomOut
	}
	return s.zoomAround(geom.Pt(s.Viewport.W/2, s.Viewport.H/2), s.Zoom*factor)
}

func (s *Stage) zoomAround(cursor geom.Point, zoom float64) bool {
	next := geom.Clamp(zoom, s.MinZoom, s.MaxZoom)
	if next == s.Zoom || math.IsNaN(next) {
		return false
	}
	anchor, ok := s.ScreenToImage(cursor)
	if !ok {
		return false
	}
	s.Zoom = next
	d := cursor.Sub(s.ImageToScreen(anchor))
	s.PanX += d.X
	s.PanY += d.Y
	return true
}

// Pan moves the image by d screen pixels.
func (s *Stage) Pan(d geom.Point) {
	s.PanX += d.X
	s.PanY += d.Y
}

// Reset restores zoom 1 and no pan.
func (s *Stage) Reset() {
	s.Zoom = 1
	s.PanX, s.PanY = 0, 0
}

// Resize updates the viewport size. Zoom and pan are kept.
func (s *Stage) Resize(viewport geom.Size) {
	s.Viewport = viewport
}

// ZoomPercent is the zoom rounded to a whole percentage, for display.
func (s *Stage) ZoomPercent() int {
	return int(math.Round(s.Zoom * 100))
}
