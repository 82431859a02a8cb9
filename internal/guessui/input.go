package guessui

import (
	"time"

	"golang.org/x/time/rate"

	"geoparty/pkg/geom"
	"geoparty/pkg/panzoom"
)

// wheelNotch converts one ebiten wheel step into browser-style deltaY pixels.
const wheelNotch = 100.0

// frame is one tick of raw pointer input.
type frame struct {
	Pos     geom.Point
	Pressed bool
	WheelY  float64
}

// pointer turns per-tick button state into pointer and wheel events.
type pointer struct {
	down    bool
	last    geom.Point
	limiter *rate.Limiter
}

func newPointer() *pointer {
	return &pointer{limiter: rate.NewLimiter(rate.Every(15*time.Millisecond), 4)}
}

// events returns the transitions since the previous frame. Wheel steps
// beyond the limiter's budget are dropped so trackpads don't outrun the
// zoom.
func (p *pointer) events(f frame) []panzoom.Event {
	var out []panzoom.Event
	if f.WheelY != 0 && (p.limiter == nil || p.limiter.Allow()) {
		out = append(out, panzoom.Wheel(f.Pos, -f.WheelY*wheelNotch))
	}
	switch {
	case f.Pressed && !p.down:
		out = append(out, panzoom.Down(f.Pos))
	case f.Pressed && p.down && f.Pos != p.last:
		out = append(out, panzoom.Move(f.Pos))
	case !f.Pressed && p.down:
		out = append(out, panzoom.Up(f.Pos))
	case !f.Pressed && f.Pos != p.last:
		out = append(out, panzoom.Move(f.Pos))
	}
	p.down = f.Pressed
	p.last = f.Pos
	return out
}

// lineEditor is the one-line name entry.
type lineEditor struct {
	active bool
	text   []rune
}

const maxNameRunes = 40

func (e *lineEditor) Open() {
	e.active = true
	e.text = e.text[:0]
}

func (e *lineEditor) Cancel() {
	e.active = false
	e.text = e.text[:0]
}

func (e *lineEditor) Insert(rs []rune) {
	if !e.active {
		return
	}
	for _, r := range rs {
		if r < ' ' || len(e.text) >= maxNameRunes {
			continue
		}
		e.text = append(e.text, r)
	}
}

func (e *lineEditor) Backspace() {
	if e.active && len(e.text) > 0 {
		e.text = e.text[:len(e.text)-1]
	}
}

// Submit closes the editor and returns what was typed.
func (e *lineEditor) Submit() string {
	s := string(e.text)
	e.Cancel()
	return s
}

func (e *lineEditor) Active() bool   { return e.active }
func (e *lineEditor) String() string { return string(e.text) }
