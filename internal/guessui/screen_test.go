package guessui

import (
	"testing"

	"geoparty/pkg/geom"
	"geoparty/pkg/guess"
	"geoparty/pkg/panzoom"
)

type fakeController struct {
	round   guess.RoundState
	guesses map[string]geom.Point
	placed  []geom.Point
	added   []string
	cycled  int
	pending int
}

func (f *fakeController) View() guess.View { return guess.View{} }
func (f *fakeController) Guesses() map[string]geom.Point { return f.guesses }
func (f *fakeController) Round() guess.RoundState { return f.round }
func (f *fakeController) AddPlayer(name string) bool {
	f.added = append(f.added, name)
	return true
}
func (f *fakeController) CyclePlayer(step int) { f.cycled += step }
func (f *fakeController) PlaceGuess(m guess.Mapper, p geom.Point) bool {
	img, ok := m.ScreenToImage(p)
	if !ok {
		return false
	}
	f.placed = append(f.placed, img)
	return true
}
func (f *fakeController) Pump() int {
	n := f.pending
	f.pending = 0
	return n
}

func newTestScreen() (*screen, *fakeController) {
	ctl := &fakeController{
		round:   guess.RoundState{Natural: geom.Sz(1600, 1200)},
		guesses: map[string]geom.Point{"Alice": geom.Pt(800, 600), "Bob": geom.Pt(100, 100)},
	}
	return newScreen(ctl, geom.Sz(800, 600)), ctl
}

func TestClickPlacesGuess(t *testing.T) {
	s, ctl := newTestScreen()
	p := geom.Pt(100, 100)
	s.handle([]panzoom.Event{panzoom.Down(p), panzoom.Move(geom.Pt(101, 100)), panzoom.Up(geom.Pt(101, 100))})
	if len(ctl.placed) != 1 {
		t.Fatalf("placed %d guesses, want 1", len(ctl.placed))
	}
	if got := ctl.placed[0]; got != geom.Pt(202, 200) {
		t.Errorf("placed at %v, want (202,200)", got)
	}
	if s.stage.PanX != 0 {
		t.Errorf("PanX = %v, want 0 for a click", s.stage.PanX)
	}
}

func TestDragPansWithoutPlacing(t *testing.T) {
	s, ctl := newTestScreen()
	s.handle([]panzoom.Event{
		panzoom.Down(geom.Pt(100, 100)),
		panzoom.Move(geom.Pt(130, 100)),
		panzoom.Move(geom.Pt(150, 110)),
		panzoom.Up(geom.Pt(150, 110)),
	})
	if len(ctl.placed) != 0 {
		t.Errorf("drag placed %v", ctl.placed)
	}
	if s.stage.PanX != 50 || s.stage.PanY != 10 {
		t.Errorf("pan = (%v,%v), want (50,10)", s.stage.PanX, s.stage.PanY)
	}
}

func TestPressOnHUDIsIgnored(t *testing.T) {
	s, ctl := newTestScreen()
	s.handle([]panzoom.Event{panzoom.Down(geom.Pt(100, 10)), panzoom.Up(geom.Pt(100, 10))})
	if len(ctl.placed) != 0 {
		t.Errorf("HUD click placed %v", ctl.placed)
	}
}

func TestWheelAndKeysZoom(t *testing.T) {
	s, _ := newTestScreen()
	s.handle([]panzoom.Event{panzoom.Wheel(geom.Pt(400, 300), -100)})
	if s.stage.Zoom <= 1 {
		t.Errorf("Zoom = %v after wheel up, want > 1", s.stage.Zoom)
	}
	s.do(actResetView)
	s.do(actZoomIn)
	if s.stage.Zoom != 1.2 {
		t.Errorf("Zoom = %v, want 1.2", s.stage.Zoom)
	}
	s.do(actZoomOut)
	if got := s.stage.ZoomPercent(); got != 96 {
		t.Errorf("ZoomPercent = %d, want 96", got)
	}
}

func TestPlayerActions(t *testing.T) {
	s, ctl := newTestScreen()
	s.do(actNextPlayer)
	s.do(actNextPlayer)
	s.do(actPrevPlayer)
	if ctl.cycled != 1 {
		t.Errorf("cycled = %d, want 1", ctl.cycled)
	}
	s.do(actNewPlayer)
	s.editor.Insert([]rune("Cara"))
	s.submitName()
	if len(ctl.added) != 1 || ctl.added[0] != "Cara" {
		t.Errorf("added = %v, want [Cara]", ctl.added)
	}
}

func TestTogglePreview(t *testing.T) {
	s, ctl := newTestScreen()
	s.do(actTogglePreview)
	if s.preview == nil {
		t.Fatal("preview not opened")
	}
	if n := len(s.preview.layer.Markers); n != 2 {
		t.Errorf("preview markers = %d, want 2", n)
	}

	ctl.guesses["Cara"] = geom.Pt(10, 10)
	ctl.pending = 1
	s.tick()
	if n := len(s.preview.layer.Markers); n != 3 {
		t.Errorf("markers after tick = %d, want 3", n)
	}

	// Clicks in the preview never place a guess.
	p := geom.Pt(300, 300)
	s.handle([]panzoom.Event{panzoom.Down(p), panzoom.Up(p)})
	if len(ctl.placed) != 0 {
		t.Errorf("preview click placed %v", ctl.placed)
	}

	s.do(actTogglePreview)
	if s.preview != nil {
		t.Error("preview not closed")
	}
}
