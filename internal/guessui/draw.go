package guessui

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"geoparty/pkg/geom"
	"geoparty/pkg/overlay"
)

const hudHeight = 44.0

var (
	uiFace    text.Face
	smallFace text.Face

	whiteImage = ebiten.NewImage(1, 1)

	backdrop  = color.NRGBA{R: 0x1c, G: 0x1e, B: 0x24, A: 0xff}
	hudBG     = color.NRGBA{R: 0x10, G: 0x12, B: 0x16, A: 0xe6}
	hudText   = color.NRGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
	hudMuted  = color.NRGBA{R: 0xa0, G: 0xa4, B: 0xac, A: 0xff}
	toastOK   = color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xee}
	toastBad  = color.NRGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xee}
	tipBG     = color.NRGBA{R: 0x10, G: 0x12, B: 0x16, A: 0xdd}
	frameLine = color.NRGBA{R: 0x60, G: 0x64, B: 0x6c, A: 0xff}
)

func init() {
	whiteImage.Fill(color.White)
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to parse font: %v", err)
	}
	uiFace = &text.GoTextFace{Source: src, Size: 16}
	smallFace = &text.GoTextFace{Source: src, Size: 13}
}

// measureLabel is the tooltip size for label, padding included.
func measureLabel(label string) geom.Size {
	w, h := text.Measure(label, smallFace, 0)
	return geom.Sz(w+12, h+8)
}

func drawText(dst *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

func fillPath(dst *ebiten.Image, p *vector.Path, clr color.Color) {
	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	paint(dst, vs, is, clr)
}

func strokePath(dst *ebiten.Image, p *vector.Path, width float64, clr color.Color) {
	vs, is := p.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: float32(width), LineJoin: vector.LineJoinRound})
	paint(dst, vs, is, clr)
}

func paint(dst *ebiten.Image, vs []ebiten.Vertex, is []uint16, clr color.Color) {
	r, g, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX = 0
		vs[i].SrcY = 0
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha, AntiAlias: true}
	dst.DrawTriangles(vs, is, whiteImage, op)
}

// pinPaint is the fill and stroke width, at zoom 1, of one part of a pin.
type pinPaint struct {
	fill   color.NRGBA
	stroke float64
}

// markerPaint returns how the tail, disc and inner mark of m are painted. The
// tail and inner mark take the marker colour; every part is outlined.
func markerPaint(m *overlay.Marker) (tail, disc, mark pinPaint) {
	tail = pinPaint{fill: m.RGBA, stroke: overlay.StrokeWidth}
	disc = pinPaint{fill: overlay.DiscRGBA, stroke: overlay.StrokeWidth}
	mark = pinPaint{fill: m.RGBA, stroke: overlay.InnerStroke}
	return tail, disc, mark
}

func paintPath(dst *ebiten.Image, p *vector.Path, pp pinPaint, k float64) {
	fillPath(dst, p, pp.fill)
	strokePath(dst, p, pp.stroke*k, overlay.StrokeRGBA)
}

// drawMarker draws m with layer coordinates mapped through toScreen.
func drawMarker(dst *ebiten.Image, m *overlay.Marker, toScreen geom.Affine) {
	full := toScreen
	if t, ok := m.Transform(); ok {
		full = toScreen.Mul(t)
	}
	k := math.Hypot(full.A, full.B)
	at := func(p geom.Point) (float32, float32) {
		q := full.Apply(p)
		return float32(q.X), float32(q.Y)
	}
	cx, cy := at(m.Anchor)
	tailPaint, discPaint, markPaint := markerPaint(m)

	var tail vector.Path
	pts := m.Tail()
	x, y := at(pts[0])
	tail.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = at(p)
		tail.LineTo(x, y)
	}
	tail.Close()
	paintPath(dst, &tail, tailPaint, k)

	var disc vector.Path
	disc.MoveTo(cx+float32(overlay.DiscRadius*k), cy)
	disc.Arc(cx, cy, float32(overlay.DiscRadius*k), 0, 2*math.Pi, vector.Clockwise)
	disc.Close()
	paintPath(dst, &disc, discPaint, k)

	var mark vector.Path
	if m.Kind == overlay.KindAnswer {
		for i, p := range m.Star() {
			x, y := at(p)
			if i == 0 {
				mark.MoveTo(x, y)
			} else {
				mark.LineTo(x, y)
			}
		}
		mark.Close()
	} else {
		mark.MoveTo(cx+float32(overlay.DotRadius*k), cy)
		mark.Arc(cx, cy, float32(overlay.DotRadius*k), 0, 2*math.Pi, vector.Clockwise)
		mark.Close()
	}
	paintPath(dst, &mark, markPaint, k)
}

// drawImage draws img scaled by k with its origin at topLeft.
func drawImage(dst, img *ebiten.Image, k float64, topLeft geom.Point) {
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(topLeft.X, topLeft.Y)
	dst.DrawImage(img, op)
}

func clip(dst *ebiten.Image, r geom.Rect) *ebiten.Image {
	rect := image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Min.X+r.Size.W)), int(math.Ceil(r.Min.Y+r.Size.H)),
	)
	return dst.SubImage(rect).(*ebiten.Image)
}

func drawTooltip(dst *ebiten.Image, tip overlay.Tooltip, origin geom.Point) {
	if !tip.Visible {
		return
	}
	size := measureLabel(tip.Text)
	x, y := origin.X+tip.Pos.X, origin.Y+tip.Pos.Y
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(size.W), float32(size.H), tipBG, true)
	drawText(dst, tip.Text, smallFace, x+6, y+4, hudText)
}

func ebitenGeoM(a geom.Affine) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, a.A)
	m.SetElement(1, 0, a.B)
	m.SetElement(0, 1, a.C)
	m.SetElement(1, 1, a.D)
	m.SetElement(0, 2, a.E)
	m.SetElement(1, 2, a.F)
	return m
}

func fillRect(dst *ebiten.Image, r geom.Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Size.W), float32(r.Size.H), clr, true)
}

func strokeRect(dst *ebiten.Image, r geom.Rect) {
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Size.W), float32(r.Size.H), 1, frameLine, true)
}
