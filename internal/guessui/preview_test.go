package guessui

import (
	"testing"

	"geoparty/pkg/geom"
	"geoparty/pkg/panzoom"
)

func newTestPreview() *preview {
	rect := geom.Rect{Min: geom.Pt(24, 68), Size: geom.Sz(800, 600)}
	p := newPreview(rect, geom.Sz(1600, 1200))
	p.measure = func(string) geom.Size { return geom.Sz(50, 20) }
	p.layout(map[string]geom.Point{"Alice": geom.Pt(800, 600)})
	return p
}

func TestFitInside(t *testing.T) {
	box := fitInside(geom.Sz(1600, 400), geom.Sz(800, 600))
	if box.Rendered != geom.Sz(800, 200) {
		t.Errorf("wide: Rendered = %v, want 800x200", box.Rendered)
	}
	box = fitInside(geom.Sz(1000, 2000), geom.Sz(800, 600))
	if box.Rendered != geom.Sz(300, 600) {
		t.Errorf("tall: Rendered = %v, want 300x600", box.Rendered)
	}
	if box := fitInside(geom.Size{}, geom.Sz(800, 600)); box.Valid() {
		t.Error("empty natural size gave a valid box")
	}
}

func TestPreviewHoverShowsPlayer(t *testing.T) {
	p := newTestPreview()
	p.handle(panzoom.Move(geom.Pt(424, 368)))
	if !p.tip.Visible || p.tip.Text != "Alice" {
		t.Fatalf("tip = %+v, want Alice visible", p.tip)
	}
	if p.tip.Pos != geom.Pt(412, 312) {
		t.Errorf("tip at %v, want (412,312)", p.tip.Pos)
	}

	p.handle(panzoom.Move(geom.Pt(100, 100)))
	if p.tip.Visible {
		t.Error("tip still visible away from the pin")
	}
}

func TestPreviewZoomCompensatesPins(t *testing.T) {
	p := newTestPreview()
	p.handle(panzoom.Wheel(geom.Pt(0, 0), -100))
	if s := p.engine.Transform().Scale; s != 1 {
		t.Errorf("wheel outside the preview zoomed to %v", s)
	}

	p.handle(panzoom.Wheel(geom.Pt(424, 368), -100))
	if s := p.engine.Transform().Scale; s != 1.12 {
		t.Fatalf("Scale = %v, want 1.12", s)
	}
	k, ok := p.layer.Markers[0].Compensation()
	if !ok || k != 1.12 {
		t.Errorf("Compensation() = %v, %v, want 1.12, true", k, ok)
	}
	// The pin under the cursor stays put.
	if got := p.toScreen().Apply(geom.Pt(400, 300)); got.Sub(geom.Pt(424, 368)).Mul(1000).Round() != (geom.Point{}) {
		t.Errorf("anchor moved to %v", got)
	}
}

func TestPreviewCloseReleasesContent(t *testing.T) {
	p := newTestPreview()
	p.close()
	if e := panzoom.New(p, &p.content); e == nil {
		t.Error("content still claimed after close")
	}
}
