package overlay

import (
	"sort"

	"geoparty/pkg/geom"
	"geoparty/pkg/mapper"
)

const (
	TooltipOffset = 12.0
	TooltipPad    = 10.0
)

// Layer holds the markers drawn over one rendered map box.
type Layer struct {
	Size    geom.Size
	Markers []*Marker

	scale float64
}

// Clear drops every marker.
func (l *Layer) Clear() {
	if l == nil {
		return
	}
	l.Markers = l.Markers[:0]
}

// Layout rebuilds the markers for guesses, keyed by player, and the optional
// answer. Guess pins are ordered by name with the answer last, so it is drawn
// on top. Nothing happens, and false is returned, when l is nil or the box
// sizes are unknown.
func (l *Layer) Layout(box mapper.Box, guesses map[string]geom.Point, answer *geom.Point) bool {
	if l == nil || !box.Valid() {
		return false
	}
	l.Size = box.Rendered
	l.Clear()

	names := make([]string, 0, len(guesses))
	for name := range guesses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p, _ := box.ToRender(guesses[name])
		l.Markers = append(l.Markers, NewPin(p, name))
	}
	if answer != nil {
		p, _ := box.ToRender(*answer)
		l.Markers = append(l.Markers, NewAnswerPin(p))
	}
	l.Compensate(l.scale)
	return true
}

// Compensate applies the inverse of the layer scale k to every marker.
func (l *Layer) Compensate(k float64) {
	if l == nil {
		return
	}
	l.scale = k
	for _, m := range l.Markers {
		m.Compensate(k)
	}
}

// HitTest returns the topmost marker under p, in layer coordinates.
func (l *Layer) HitTest(p geom.Point) *Marker {
	if l == nil {
		return nil
	}
	for i := len(l.Markers) - 1; i >= 0; i-- {
		if l.Markers[i].Contains(p) {
			return l.Markers[i]
		}
	}
	return nil
}

// Tooltip is the shared hover label.
type Tooltip struct {
	Text    string
	Pos     geom.Point
	Visible bool
}

// PlaceTooltip positions a tip of size tip next to pointer without leaving
// container.
func PlaceTooltip(pointer geom.Point, tip, container geom.Size) geom.Point {
	return geom.Pt(
		geom.Clamp(pointer.X+TooltipOffset, TooltipPad, container.W-tip.W-TooltipPad),
		geom.Clamp(pointer.Y+TooltipOffset, TooltipPad, container.H-tip.H-TooltipPad),
	)
}

// Hover hit-tests layerPt and, on a labelled marker, places the tooltip at
// containerPt inside container.
func (l *Layer) Hover(layerPt, containerPt geom.Point, tip, container geom.Size) Tooltip {
	m := l.HitTest(layerPt)
	if m == nil || m.Label == "" {
		return Tooltip{}
	}
	return Tooltip{Text: m.Label, Pos: PlaceTooltip(containerPt, tip, container), Visible: true}
}
