package overlay

import (
	"math"
	"strings"
	"testing"

	"geoparty/pkg/geom"
	"geoparty/pkg/mapper"
)

var testBox = mapper.Box{Natural: geom.Sz(1600, 1200), Rendered: geom.Sz(800, 600)}

func TestLayoutPlacesPins(t *testing.T) {
	var l Layer
	answer := geom.Pt(400, 300)
	ok := l.Layout(testBox, map[string]geom.Point{
		"Bob":   geom.Pt(1000, 1000),
		"Alice": geom.Pt(100, 100),
	}, &answer)
	if !ok {
		t.Fatal("Layout skipped a valid box")
	}
	if l.Size != testBox.Rendered {
		t.Errorf("Size %v, want %v", l.Size, testBox.Rendered)
	}
	if len(l.Markers) != 3 {
		t.Fatalf("len(Markers) = %d, want 3", len(l.Markers))
	}
	if m := l.Markers[0]; m.Label != "Alice" || m.Anchor != geom.Pt(50, 50) {
		t.Errorf("first marker %q at %v, want Alice at (50,50)", m.Label, m.Anchor)
	}
	if m := l.Markers[2]; m.Kind != KindAnswer || m.Label != AnswerLabel || m.CSS != geom.AnswerCSS {
		t.Errorf("last marker %+v, want the answer pin", m)
	}
	if got, want := l.Markers[1].CSS, geom.PlayerColor("Bob"); got != want {
		t.Errorf("Bob colour %q, want %q", got, want)
	}
}

func TestLayoutSkipsUnknownSizes(t *testing.T) {
	var l Layer
	l.Layout(testBox, map[string]geom.Point{"A": geom.Pt(1, 1)}, nil)
	if l.Layout(mapper.Box{Natural: geom.Sz(10, 10)}, nil, nil) {
		t.Error("Layout reported success with zero rendered size")
	}
	if len(l.Markers) != 1 {
		t.Errorf("skipped layout changed markers: %d", len(l.Markers))
	}
	var nilLayer *Layer
	if nilLayer.Layout(testBox, nil, nil) {
		t.Error("nil layer reported a layout")
	}
}

func TestConstantPinSize(t *testing.T) {
	var l Layer
	l.Layout(testBox, map[string]geom.Point{"P1": geom.Pt(800, 600)}, nil)
	want := l.Markers[0].Bounds().Size

	for _, k := range []float64{1, 1.12, 2, 3.7, 6} {
		l.Compensate(k)
		b := l.Markers[0].Bounds()
		got := geom.Sz(b.Size.W*k, b.Size.H*k)
		if math.Abs(got.W-want.W) > 1e-9 || math.Abs(got.H-want.H) > 1e-9 {
			t.Errorf("k=%v: on-screen size %v, want %v", k, got, want)
		}
		if tr, ok := l.Markers[0].Transform(); ok {
			if a := tr.Apply(l.Markers[0].Anchor); math.Abs(a.X-400) > 1e-9 || math.Abs(a.Y-300) > 1e-9 {
				t.Errorf("k=%v: anchor moved to %v", k, a)
			}
		}
	}
}

func TestCompensateRemovedAtUnitScale(t *testing.T) {
	m := NewPin(geom.Pt(10, 10), "A")
	m.Compensate(2)
	if _, ok := m.Transform(); !ok {
		t.Fatal("no transform at k=2")
	}
	m.Compensate(1)
	if _, ok := m.Transform(); ok {
		t.Error("transform kept at k=1")
	}
	m.Compensate(0)
	if _, ok := m.Transform(); ok {
		t.Error("transform set at k=0")
	}
}

func TestLayoutKeepsCompensation(t *testing.T) {
	var l Layer
	l.Compensate(3)
	l.Layout(testBox, map[string]geom.Point{"A": geom.Pt(10, 10)}, nil)
	if k, ok := l.Markers[0].Compensation(); !ok || k != 3 {
		t.Errorf("Compensation = %v, %v; want 3, true", k, ok)
	}
}

func TestHitTest(t *testing.T) {
	var l Layer
	l.Layout(testBox, map[string]geom.Point{
		"Alice": geom.Pt(200, 200),
		"Bob":   geom.Pt(210, 200),
	}, nil)

	if m := l.HitTest(geom.Pt(104, 100)); m == nil || m.Label != "Bob" {
		t.Errorf("overlap hit %v, want topmost Bob", m)
	}
	if m := l.HitTest(geom.Pt(100, 122)); m == nil {
		t.Error("tail not hit")
	}
	if m := l.HitTest(geom.Pt(300, 300)); m != nil {
		t.Errorf("empty area hit %q", m.Label)
	}

	l.Compensate(4)
	if m := l.HitTest(geom.Pt(100, 97)); m != nil {
		t.Errorf("compensated pin still hit outside its shrunken disc: %q", m.Label)
	}
	if m := l.HitTest(geom.Pt(100, 102)); m == nil {
		t.Error("compensated pin missed inside its disc")
	}
}

func TestPlaceTooltip(t *testing.T) {
	container := geom.Sz(800, 600)
	tip := geom.Sz(60, 24)
	if got := PlaceTooltip(geom.Pt(100, 100), tip, container); got != geom.Pt(112, 112) {
		t.Errorf("PlaceTooltip = %v, want (112,112)", got)
	}
	if got := PlaceTooltip(geom.Pt(790, 590), tip, container); got != geom.Pt(730, 566) {
		t.Errorf("PlaceTooltip near corner = %v, want (730,566)", got)
	}
	if got := PlaceTooltip(geom.Pt(-50, -50), tip, container); got != geom.Pt(10, 10) {
		t.Errorf("PlaceTooltip off left = %v, want (10,10)", got)
	}
}

func TestHover(t *testing.T) {
	var l Layer
	l.Layout(testBox, map[string]geom.Point{"Alice": geom.Pt(200, 200)}, nil)
	tip := l.Hover(geom.Pt(100, 100), geom.Pt(100, 100), geom.Sz(40, 20), l.Size)
	if !tip.Visible || tip.Text != "Alice" {
		t.Errorf("Hover = %+v, want Alice visible", tip)
	}
	if tip := l.Hover(geom.Pt(500, 500), geom.Pt(500, 500), geom.Sz(40, 20), l.Size); tip.Visible {
		t.Errorf("Hover on empty area = %+v, want hidden", tip)
	}
}

func TestStarStartsStraightUp(t *testing.T) {
	pts := NewAnswerPin(geom.Pt(50, 50)).Star()
	if len(pts) != 10 {
		t.Fatalf("len = %d, want 10", len(pts))
	}
	if math.Abs(pts[0].X-50) > 1e-9 || math.Abs(pts[0].Y-(50-StarOuter)) > 1e-9 {
		t.Errorf("first point %v, want (50,%v)", pts[0], 50-StarOuter)
	}
}

func TestMarkerSVGAttributes(t *testing.T) {
	var l Layer
	answer := geom.Pt(0, 0)
	l.Layout(testBox, map[string]geom.Point{"Alice": geom.Pt(100, 100)}, &answer)

	pin, star := l.Markers[0], l.Markers[1]
	if pin.Class() != "pin" || star.Class() != "pin answer" {
		t.Errorf("classes %q, %q", pin.Class(), star.Class())
	}
	if got := pin.SVGTransform(); got != "" {
		t.Errorf("uncompensated transform %q, want empty", got)
	}
	if got, want := pin.TailPath(), "M 50 61 L 44 75 L 56 75 Z"; got != want {
		t.Errorf("TailPath %q, want %q", got, want)
	}
	if got := star.StarPath(); !strings.HasPrefix(got, "M 0.00 -7.20 L ") || !strings.HasSuffix(got, " Z") {
		t.Errorf("StarPath %q", got)
	}

	l.Compensate(2)
	if got, want := pin.SVGTransform(), "translate(50 50) scale(0.5) translate(-50 -50)"; got != want {
		t.Errorf("SVGTransform %q, want %q", got, want)
	}
}

func TestParseGuesses(t *testing.T) {
	got := ParseGuesses([]byte(`{"Alice":{"x":10,"y":20},"Bob":[30,40],"Carol":"nope","Dan":{"x":1}}`))
	if len(got) != 2 || got["Alice"] != geom.Pt(10, 20) || got["Bob"] != geom.Pt(30, 40) {
		t.Errorf("ParseGuesses = %v", got)
	}
	if got := ParseGuesses([]byte(`{not json`)); len(got) != 0 {
		t.Errorf("malformed payload gave %v, want empty", got)
	}
	if got := ParseGuesses(nil); got == nil || len(got) != 0 {
		t.Errorf("nil payload gave %v, want empty map", got)
	}
}
