package panzoom

import (
	"math"

	"geoparty/pkg/geom"
)

// Gesture tracks a single press from down to up and decides whether it was
// a click or a drag.
type Gesture struct {
	active bool
	moved  bool
	start  geom.Point
}

// Down starts tracking at p.
func (g *Gesture) Down(p geom.Point) {
	g.active = true
	g.moved = false
	g.start = p
}

// Move records pointer travel and returns the offset from the press position.
func (g *Gesture) Move(p geom.Point) geom.Point {
	d := p.Sub(g.start)
	if g.active && (math.Abs(d.X) >= DragThreshold || math.Abs(d.Y) >= DragThreshold) {
		g.moved = true
	}
	return d
}

// Up ends the gesture and reports whether it was a click.
func (g *Gesture) Up(p geom.Point) bool {
	if !g.active {
		return false
	}
	g.Move(p)
	g.active = false
	return !g.moved
}

// Active reports whether a press is in progress.
func (g *Gesture) Active() bool { return g.active }

// Moved reports whether the current or last press passed the drag threshold.
func (g *Gesture) Moved() bool { return g.moved }

// Start returns where the current press began.
func (g *Gesture) Start() geom.Point { return g.start }
