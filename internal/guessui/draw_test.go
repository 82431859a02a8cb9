package guessui

import (
	"testing"

	"geoparty/pkg/geom"
	"geoparty/pkg/overlay"
)

func TestMarkerPaint(t *testing.T) {
	for _, m := range []*overlay.Marker{
		overlay.NewPin(geom.Pt(5, 5), "Alice"),
		overlay.NewAnswerPin(geom.Pt(5, 5)),
	} {
		tail, disc, mark := markerPaint(m)
		if tail.fill != m.RGBA {
			t.Errorf("%s tail fill %v, want marker colour %v", m.Label, tail.fill, m.RGBA)
		}
		if disc.fill != overlay.DiscRGBA {
			t.Errorf("%s disc fill %v, want %v", m.Label, disc.fill, overlay.DiscRGBA)
		}
		if mark.fill != m.RGBA {
			t.Errorf("%s inner fill %v, want %v", m.Label, mark.fill, m.RGBA)
		}
		if tail.stroke != overlay.StrokeWidth || disc.stroke != overlay.StrokeWidth {
			t.Errorf("%s outline %v/%v, want %v", m.Label, tail.stroke, disc.stroke, overlay.StrokeWidth)
		}
		if mark.stroke != overlay.InnerStroke {
			t.Errorf("%s inner stroke %v, want %v", m.Label, mark.stroke, overlay.InnerStroke)
		}
	}
}
