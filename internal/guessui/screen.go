package guessui

import (
	"geoparty/pkg/geom"
	"geoparty/pkg/guess"
	"geoparty/pkg/mapper"
	"geoparty/pkg/panzoom"
)

type action int

const (
	actNone action = iota
	actZoomIn
	actZoomOut
	actResetView
	actNextPlayer
	actPrevPlayer
	actNewPlayer
	actTogglePreview
)

// controller is the part of guess.Controller the screen drives.
type controller interface {
	View() guess.View
	Guesses() map[string]geom.Point
	Round() guess.RoundState
	PlaceGuess(m guess.Mapper, screen geom.Point) bool
	AddPlayer(name string) bool
	CyclePlayer(step int)
	Pump() int
}

// screen is the guess entry screen: a fitted, zoomable map that places the
// selected player's pin on click and pans on drag.
type screen struct {
	ctl     controller
	stage   *mapper.Stage
	gesture panzoom.Gesture
	dragged geom.Point
	editor  lineEditor
	preview *preview
}

func newScreen(ctl controller, viewport geom.Size) *screen {
	return &screen{
		ctl:   ctl,
		stage: mapper.NewStage(viewport, ctl.Round().Natural),
	}
}

func (s *screen) resize(viewport geom.Size) {
	if s.stage.Viewport == viewport {
		return
	}
	s.stage.Resize(viewport)
	if s.preview != nil {
		s.preview = newPreview(previewRect(viewport), s.ctl.Round().Natural)
	}
}

// handle applies pointer events to the map or the preview.
func (s *screen) handle(events []panzoom.Event) {
	if s.preview != nil {
		for _, ev := range events {
			s.preview.handle(ev)
		}
		return
	}
	for _, ev := range events {
		switch ev.Kind {
		case panzoom.EventWheel:
			s.stage.ZoomAt(ev.Pos, ev.DeltaY)
		case panzoom.EventPointerDown:
			if ev.Pos.Y < hudHeight {
				continue
			}
			s.gesture.Down(ev.Pos)
			s.dragged = geom.Point{}
		case panzoom.EventPointerMove:
			if !s.gesture.Active() {
				continue
			}
			d := s.gesture.Move(ev.Pos)
			if s.gesture.Moved() {
				s.stage.Pan(d.Sub(s.dragged))
				s.dragged = d
			}
		case panzoom.EventPointerUp, panzoom.EventPointerCancel, panzoom.EventPointerLeave:
			if !s.gesture.Active() {
				continue
			}
			d := s.gesture.Move(ev.Pos)
			if s.gesture.Moved() {
				s.stage.Pan(d.Sub(s.dragged))
			}
			if s.gesture.Up(ev.Pos) && ev.Kind == panzoom.EventPointerUp {
				s.ctl.PlaceGuess(s.stage, ev.Pos)
			}
		}
	}
}

func (s *screen) do(a action) {
	switch a {
	case actZoomIn:
		s.stage.ZoomBy(1)
	case actZoomOut:
		s.stage.ZoomBy(-1)
	case actResetView:
		if s.preview != nil {
			s.preview.engine.Reset()
		} else {
			s.stage.Reset()
		}
	case actNextPlayer:
		s.ctl.CyclePlayer(1)
	case actPrevPlayer:
		s.ctl.CyclePlayer(-1)
	case actNewPlayer:
		s.editor.Open()
	case actTogglePreview:
		if s.preview != nil {
			s.preview.close()
			s.preview = nil
			return
		}
		s.preview = newPreview(previewRect(s.stage.Viewport), s.ctl.Round().Natural)
		s.preview.layout(s.ctl.Guesses())
	}
}

// submitName sends the typed name. The controller reports empty names.
func (s *screen) submitName() {
	s.ctl.AddPlayer(s.editor.Submit())
}

// tick applies finished requests and refreshes the preview pins.
func (s *screen) tick() {
	if s.ctl.Pump() > 0 && s.preview != nil {
		s.preview.layout(s.ctl.Guesses())
	}
}

// previewRect leaves room for the HUD bar above the preview map.
func previewRect(viewport geom.Size) geom.Rect {
	const margin = 24.0
	top := hudHeight + margin
	return geom.Rect{
		Min:  geom.Pt(margin, top),
		Size: geom.Sz(max(viewport.W-2*margin, 1), max(viewport.H-top-margin, 1)),
	}
}
