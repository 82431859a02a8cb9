package panzoom

import (
	"testing"

	"geoparty/pkg/geom"
)

func TestGestureClassification(t *testing.T) {
	var g Gesture
	g.Down(geom.Pt(10, 10))
	g.Move(geom.Pt(11.5, 8.5))
	if !g.Up(geom.Pt(11, 11)) {
		t.Error("small wiggle classified as drag")
	}

	g.Down(geom.Pt(10, 10))
	g.Move(geom.Pt(10, 14))
	g.Move(geom.Pt(10, 10))
	if g.Up(geom.Pt(10, 10)) {
		t.Error("press that travelled and came back classified as click")
	}

	if g.Up(geom.Pt(0, 0)) {
		t.Error("Up without Down classified as click")
	}
}
