package mapper

import (
	"math"
	"testing"

	"geoparty/pkg/geom"
	"geoparty/pkg/panzoom"
)

func TestBoxScenario(t *testing.T) {
	b := Box{Natural: geom.Sz(1600, 1200), Rendered: geom.Sz(800, 600)}
	got, ok := b.ToRender(geom.Pt(100, 100))
	if !ok || got != geom.Pt(50, 50) {
		t.Fatalf("ToRender = %v, %v; want (50,50), true", got, ok)
	}
	back, ok := b.ToImage(got)
	if !ok || back != geom.Pt(100, 100) {
		t.Errorf("ToImage = %v, %v; want (100,100), true", back, ok)
	}
}

func TestBoxRoundTrip(t *testing.T) {
	boxes := []Box{
		{Natural: geom.Sz(1600, 1200), Rendered: geom.Sz(800, 600)},
		{Natural: geom.Sz(4000, 3000), Rendered: geom.Sz(333, 250)},
		{Natural: geom.Sz(640, 480), Rendered: geom.Sz(1280, 700)},
	}
	for _, b := range boxes {
		for x := 0.0; x <= b.Natural.W; x += 37 {
			for y := 0.0; y <= b.Natural.H; y += 41 {
				r, _ := b.ToRender(geom.Pt(x, y))
				back, _ := b.ToImage(r)
				if math.Abs(back.X-x) > 1 || math.Abs(back.Y-y) > 1 {
					t.Fatalf("%+v: (%v,%v) came back as %v", b, x, y, back)
				}
			}
		}
	}
}

func TestBoxClampsAndRejectsEmpty(t *testing.T) {
	b := Box{Natural: geom.Sz(100, 100), Rendered: geom.Sz(50, 50)}
	got, _ := b.ToRender(geom.Pt(500, -20))
	if got != geom.Pt(50, 0) {
		t.Errorf("ToRender = %v, want (50,0)", got)
	}
	if _, ok := (Box{Natural: geom.Sz(100, 100)}).ToRender(geom.Pt(1, 1)); ok {
		t.Error("ToRender with zero rendered size reported ok")
	}
	if _, ok := (Box{Rendered: geom.Sz(100, 100)}).ToImage(geom.Pt(1, 1)); ok {
		t.Error("ToImage with zero natural size reported ok")
	}
}

func TestFit(t *testing.T) {
	b := Fit(geom.Sz(1600, 1200), 960)
	if b.Rendered != geom.Sz(960, 720) {
		t.Errorf("Rendered %v, want 960x720", b.Rendered)
	}
	small := Fit(geom.Sz(400, 300), 960)
	if small.Rendered != geom.Sz(400, 300) {
		t.Errorf("Rendered %v, want 400x300", small.Rendered)
	}
}

func TestContentPoint(t *testing.T) {
	tr := panzoom.Transform{Scale: 2, TranslateX: 40, TranslateY: -10}
	got := ContentPoint(geom.Pt(140, 90), tr)
	if got != geom.Pt(50, 50) {
		t.Errorf("ContentPoint = %v, want (50,50)", got)
	}
}

func TestStageScenario(t *testing.T) {
	s := NewStage(geom.Sz(800, 600), geom.Sz(1600, 900))
	if got := s.BaseScale(); got != 0.5 {
		t.Fatalf("BaseScale %v, want 0.5", got)
	}
	s.Zoom = 1.2
	if got := s.Scale(); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("Scale %v, want 0.6", got)
	}
}

func TestStageCentresImage(t *testing.T) {
	s := NewStage(geom.Sz(800, 600), geom.Sz(1600, 900))
	if got, want := s.TopLeft(), geom.Pt(0, 75); got != want {
		t.Errorf("TopLeft %v, want %v", got, want)
	}
	if got, _ := s.ScreenToImage(geom.Pt(400, 300)); RoundPoint(got) != geom.Pt(800, 450) {
		t.Errorf("centre maps to %v, want (800,450)", got)
	}
}

func TestStageZoomAtKeepsAnchor(t *testing.T) {
	s := NewStage(geom.Sz(800, 600), geom.Sz(1600, 900))
	cursor := geom.Pt(123, 456)
	for _, dy := range []float64{-300, -120, 80, -500} {
		before, _ := s.ScreenToImage(cursor)
		s.ZoomAt(cursor, dy)
		after, _ := s.ScreenToImage(cursor)
		if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
			t.Fatalf("deltaY %v: image point moved from %v to %v", dy, before, after)
		}
	}
}

func TestStageZoomBounds(t *testing.T) {
	s := NewStage(geom.Sz(800, 600), geom.Sz(1600, 900))
	for i := 0; i < 50; i++ {
		s.ZoomBy(1)
	}
	if s.Zoom != StageMaxZoom {
		t.Fatalf("Zoom %v, want %v", s.Zoom, StageMaxZoom)
	}
	pan := geom.Pt(s.PanX, s.PanY)
	if s.ZoomAt(geom.Pt(10, 10), -400) {
		t.Error("ZoomAt at max zoom reported a change")
	}
	if geom.Pt(s.PanX, s.PanY) != pan {
		t.Error("pan drifted at max zoom")
	}
	for i := 0; i < 50; i++ {
		s.ZoomBy(-1)
	}
	if s.Zoom != StageMinZoom {
		t.Errorf("Zoom %v, want %v", s.Zoom, StageMinZoom)
	}
	s.Reset()
	if s.Zoom != 1 || s.PanX != 0 || s.PanY != 0 {
		t.Errorf("Reset left zoom %v pan (%v,%v)", s.Zoom, s.PanX, s.PanY)
	}
}

func TestStageImageScreenRoundTrip(t *testing.T) {
	s := NewStage(geom.Sz(1024, 768), geom.Sz(3000, 2000))
	s.Zoom = 2.5
	s.Pan(geom.Pt(-311, 97))
	p := geom.Pt(1234, 987)
	img, ok := s.ScreenToImage(s.ImageToScreen(p))
	if back := RoundPoint(img); !ok || back != p {
		t.Errorf("round trip %v, want %v", back, p)
	}
}

func TestStageEmptyViewport(t *testing.T) {
	s := NewStage(geom.Size{}, geom.Sz(1600, 900))
	if p, ok := s.ScreenToImage(geom.Pt(10, 10)); ok {
		t.Errorf("ScreenToImage = %v, true; want false on an empty viewport", p)
	}
	if s.ZoomAt(geom.Pt(0, 0), -120) {
		t.Error("ZoomAt changed zoom on an empty viewport")
	}
	if math.IsNaN(s.PanX) || math.IsNaN(s.PanY) {
		t.Errorf("pan became (%v,%v)", s.PanX, s.PanY)
	}
}
