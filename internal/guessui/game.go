// Package guessui is the desktop guess screen: a full-window map where each
// player in turn clicks their guess, with a preview of every pin.
package guessui

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"geoparty/pkg/geom"
	"geoparty/pkg/guess"
	"geoparty/pkg/mapper"
	"geoparty/pkg/overlay"
)

const helpLine = "click: pin · drag: pan · wheel +/-: zoom · 0: reset · Tab: player · N: new player · P: all pins · Esc: quit"

// Game implements ebiten.Game.
type Game struct {
	title  string
	screen *screen
	ptr    *pointer
	mapImg *ebiten.Image

	touchIDs []ebiten.TouchID
}

// New returns a game for ctl. ctl must already be loaded; img is the round's
// map and may be nil.
func New(title string, ctl *guess.Controller, img image.Image) *Game {
	g := &Game{
		title:  title,
		screen: newScreen(ctl, geom.Sz(1280, 800)),
		ptr:    newPointer(),
	}
	if img != nil {
		g.mapImg = ebiten.NewImageFromImage(img)
	}
	return g
}

// Run opens the window and blocks until it closes.
func (g *Game) Run() error {
	ebiten.SetWindowTitle(g.title)
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	s := g.screen
	s.tick()

	if s.editor.Active() {
		s.editor.Insert(ebiten.AppendInputChars(nil))
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
			s.submitName()
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			s.editor.Cancel()
		case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
			s.editor.Backspace()
		default:
			if d := inpututil.KeyPressDuration(ebiten.KeyBackspace); d > 30 && d%3 == 0 {
				s.editor.Backspace()
			}
		}
	} else {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		s.do(g.keyAction())
	}

	s.handle(g.ptr.events(g.readFrame()))
	return nil
}

func (g *Game) keyAction() action {
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		return actZoomIn
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		return actZoomOut
	case inpututil.IsKeyJustPressed(ebiten.Key0), inpututil.IsKeyJustPressed(ebiten.KeyNumpad0):
		return actResetView
	case inpututil.IsKeyJustPressed(ebiten.KeyTab) && shift:
		return actPrevPlayer
	case inpututil.IsKeyJustPressed(ebiten.KeyTab), inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		return actNextPlayer
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		return actPrevPlayer
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		return actNewPlayer
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		return actTogglePreview
	}
	return actNone
}

// readFrame samples the first touch, or the mouse when nothing touches.
func (g *Game) readFrame() frame {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) > 0 {
		x, y := ebiten.TouchPosition(g.touchIDs[0])
		return frame{Pos: geom.Pt(float64(x), float64(y)), Pressed: true}
	}
	x, y := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	return frame{
		Pos:     geom.Pt(float64(x), float64(y)),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		WheelY:  wy,
	}
}

func (g *Game) Draw(dst *ebiten.Image) {
	dst.Fill(backdrop)
	s := g.screen
	view := s.ctl.View()

	if p := s.preview; p != nil {
		g.drawPreview(dst, p)
	} else {
		g.drawStage(dst, s.stage, view)
	}
	g.drawHUD(dst, view)
}

func (g *Game) drawStage(dst *ebiten.Image, st *mapper.Stage, view guess.View) {
	drawImage(dst, g.mapImg, st.Scale(), st.TopLeft())
	if view.Pin != nil {
		drawMarker(dst, overlay.NewPin(st.ImageToScreen(*view.Pin), view.Selected), geom.Identity())
	}
}

func (g *Game) drawPreview(dst *ebiten.Image, p *preview) {
	area := clip(dst, p.rect)
	toScreen := p.toScreen()
	if g.mapImg != nil && p.box.Valid() {
		k := p.box.Rendered.W / p.box.Natural.W
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM.Scale(k, k)
		op.GeoM.Concat(ebitenGeoM(toScreen))
		area.DrawImage(g.mapImg, op)
	}
	for _, m := range p.layer.Markers {
		drawMarker(area, m, toScreen)
	}
	drawTooltip(area, p.tip, p.rect.Min)
	strokeRect(dst, p.rect)
}

func (g *Game) drawHUD(dst *ebiten.Image, view guess.View) {
	w := float64(dst.Bounds().Dx())
	h := float64(dst.Bounds().Dy())
	fillRect(dst, geom.Rect{Size: geom.Sz(w, hudHeight)}, hudBG)

	status := guess.MsgNoPlayers
	if view.State == guess.StatePlayerSelected {
		status = "Turn: " + view.Selected
		if view.Pin != nil {
			status += " (guessed)"
		}
	}
	if g.screen.editor.Active() {
		status = "New player: " + g.screen.editor.String() + "_"
	}
	drawText(dst, status, uiFace, 12, 12, hudText)

	right := fmt.Sprintf("%s   %s   Zoom %d%%", view.Guessed, view.PinStatus, g.screen.stage.ZoomPercent())
	if g.screen.preview != nil {
		right = fmt.Sprintf("%s   All pins   Zoom %.0f%%", view.Guessed, g.screen.preview.engine.Transform().Scale*100)
	}
	drawText(dst, right, smallFace, w-420, 15, hudMuted)
	drawText(dst, helpLine, smallFace, 12, h-22, hudMuted)

	if t := view.Toast; t.Visible {
		size := measureLabel(t.Text)
		size.W += 16
		r := geom.Rect{Min: geom.Pt((w-size.W)/2, h-size.H-48), Size: size}
		bg := toastOK
		if t.Error {
			bg = toastBad
		}
		fillRect(dst, r, bg)
		drawText(dst, t.Text, smallFace, r.Min.X+14, r.Min.Y+4, hudText)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screen.resize(geom.Sz(float64(outsideWidth), float64(outsideHeight)))
	return outsideWidth, outsideHeight
}
