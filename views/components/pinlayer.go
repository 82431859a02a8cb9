package components

import (
	"github.com/a-h/templ"

	"geoparty/internal/viewmodel"
	"geoparty/pkg/geom"
	"geoparty/pkg/mapper"
	"geoparty/pkg/overlay"
	"geoparty/pkg/panzoom"
)

// pinLayer lays out m's pins over its display box, counter-scaled against the
// pan/zoom transform when the map zooms.
func pinLayer(m viewmodel.PinMap) *overlay.Layer {
	var layer overlay.Layer
	if m.PanZoom {
		layer.Compensate(m.Transform.Scale)
	}
	layer.Layout(mapper.Box{Natural: m.Natural, Rendered: m.Display}, m.Guesses, m.Answer)
	return &layer
}

func viewportStyle(size geom.Size) templ.SafeCSS {
	return templ.SafeCSS("width:" + overlay.Num(size.W) + "px;height:" + overlay.Num(size.H) + "px")
}

func contentStyle(t panzoom.Transform) templ.SafeCSS {
	return templ.SafeCSS("transform:translate(" + overlay.Num(t.TranslateX) + "px," + overlay.Num(t.TranslateY) + "px) scale(" + overlay.Num(t.Scale) + ")")
}

func viewBox(size geom.Size) string {
	return "0 0 " + overlay.Num(size.W) + " " + overlay.Num(size.H)
}
