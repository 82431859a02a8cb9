package guessui

import (
	"math"

	"geoparty/pkg/geom"
	"geoparty/pkg/mapper"
	"geoparty/pkg/overlay"
	"geoparty/pkg/panzoom"
)

// preview shows every guess on a pan/zoom map. Pins keep their screen size
// while zoomed and hovering one shows its player.
type preview struct {
	rect    geom.Rect
	content panzoom.Surface
	engine  *panzoom.Engine
	box     mapper.Box
	layer   overlay.Layer
	tip     overlay.Tooltip
	measure func(string) geom.Size
}

func newPreview(rect geom.Rect, natural geom.Size) *preview {
	p := &preview{rect: rect, box: fitInside(natural, rect.Size), measure: measureLabel}
	p.engine = panzoom.New(p, &p.content)
	p.engine.OnChange(func(t panzoom.Transform) {
		p.layer.Compensate(t.Scale)
		p.tip = overlay.Tooltip{}
	})
	return p
}

// Bounds makes the preview its own panzoom viewport.
func (p *preview) Bounds() geom.Rect { return p.rect }

func (p *preview) close() { p.engine.Detach() }

// fitInside fits natural into area without upscaling.
func fitInside(natural, area geom.Size) mapper.Box {
	if natural.Empty() || area.Empty() {
		return mapper.Box{Natural: natural}
	}
	width := math.Min(area.W, area.H*natural.W/natural.H)
	return mapper.Fit(natural, width)
}

func (p *preview) layout(guesses map[string]geom.Point) {
	p.layer.Layout(p.box, guesses, nil)
}

func (p *preview) handle(ev panzoom.Event) {
	switch ev.Kind {
	case panzoom.EventWheel, panzoom.EventPointerDown:
		if !p.rect.Contains(ev.Pos) {
			return
		}
	}
	p.engine.HandleEvent(ev)
	if ev.Kind == panzoom.EventPointerMove && !p.engine.Dragging() {
		p.hover(ev.Pos)
	}
}

// hover updates the tooltip for a pointer at pos in screen coordinates.
func (p *preview) hover(pos geom.Point) {
	if !p.rect.Contains(pos) {
		p.tip = overlay.Tooltip{}
		return
	}
	local := p.rect.Local(pos)
	layerPt := p.engine.Transform().ContentPoint(local)
	var size geom.Size
	if m := p.layer.HitTest(layerPt); m != nil {
		size = p.measure(m.Label)
	}
	p.tip = p.layer.Hover(layerPt, local, size, p.rect.Size)
}

// toScreen maps layer coordinates to the window.
func (p *preview) toScreen() geom.Affine {
	return geom.Translate(p.rect.Min.X, p.rect.Min.Y).Mul(p.engine.Transform().Affine())
}
