package panzoom

import (
	"errors"
	"math"
	"testing"

	"geoparty/pkg/geom"
)

type fakeViewport struct {
	rect     geom.Rect
	captured []int
	released []int
	fail     bool
}

func (v *fakeViewport) Bounds() geom.Rect { return v.rect }

func (v *fakeViewport) CapturePointer(id int) error {
	if v.fail {
		return errors.New("capture not supported")
	}
	v.captured = append(v.captured, id)
	return nil
}

func (v *fakeViewport) ReleasePointer(id int) error {
	if v.fail {
		return errors.New("capture not supported")
	}
	v.released = append(v.released, id)
	return nil
}

type fakeContent struct {
	Surface
	applied int
}

func (c *fakeContent) ApplyTransform(t Transform) {
	c.Surface.ApplyTransform(t)
	c.applied++
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *fakeViewport, *fakeContent) {
	t.Helper()
	vp := &fakeViewport{rect: geom.Rect{Min: geom.Pt(100, 50), Size: geom.Sz(800, 600)}}
	content := &fakeContent{}
	e := New(vp, content, opts...)
	if e == nil {
		t.Fatal("New returned nil")
	}
	return e, vp, content
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWheelKeepsContentPointUnderCursor(t *testing.T) {
	e, vp, _ := newTestEngine(t)
	cursor := geom.Pt(340, 290)
	local := vp.rect.Local(cursor)

	for i := 0; i < 5; i++ {
		before := e.Transform().ContentPoint(local)
		if !e.HandleEvent(Wheel(cursor, -100)) {
			t.Fatalf("step %d: wheel in did not change transform", i)
		}
		after := e.Transform().ContentPoint(local)
		if !near(before.X, after.X) || !near(before.Y, after.Y) {
			t.Fatalf("step %d: content point moved from %v to %v", i, before, after)
		}
	}
	if e.Transform().Scale <= 1 {
		t.Errorf("Scale %v, want > 1", e.Transform().Scale)
	}
}

func TestWheelDirection(t *testing.T) {
	e, _, _ := newTestEngine(t, WithMinScale(0.5))
	e.HandleEvent(Wheel(geom.Pt(500, 350), -1))
	if got, want := e.Transform().Scale, 1.12; !near(got, want) {
		t.Fatalf("Scale %v, want %v", got, want)
	}
	e.HandleEvent(Wheel(geom.Pt(500, 350), 1))
	if got, want := e.Transform().Scale, 1.12*0.88; !near(got, want) {
		t.Errorf("Scale %v, want %v", got, want)
	}
}

func TestScaleBoundsWithoutDrift(t *testing.T) {
	e, _, content := newTestEngine(t)
	notified := 0
	e.OnChange(func(Transform) { notified++ })

	cursor := geom.Pt(400, 300)
	for i := 0; i < 200; i++ {
		e.HandleEvent(Wheel(cursor, -120))
	}
	if got := e.Transform().Scale; got != DefaultMaxScale {
		t.Fatalf("Scale %v, want %v", got, DefaultMaxScale)
	}

	atMax := e.Transform()
	calls, applied := notified, content.applied
	for i := 0; i < 10; i++ {
		if e.HandleEvent(Wheel(geom.Pt(float64(120+i*7), 90), -120)) {
			t.Fatal("wheel at max scale reported a change")
		}
	}
	if e.Transform() != atMax {
		t.Errorf("Transform drifted at max: %+v, want %+v", e.Transform(), atMax)
	}
	if notified != calls || content.applied != applied {
		t.Errorf("clamped wheel notified listeners")
	}

	for i := 0; i < 200; i++ {
		e.HandleEvent(Wheel(cursor, 120))
	}
	if got := e.Transform().Scale; got != DefaultMinScale {
		t.Errorf("Scale %v, want %v", got, DefaultMinScale)
	}
}

func TestDragVersusClick(t *testing.T) {
	e, vp, _ := newTestEngine(t)

	e.HandleEvent(Down(geom.Pt(200, 200)))
	e.HandleEvent(Move(geom.Pt(201, 201)))
	e.HandleEvent(Up(geom.Pt(201, 201)))
	if e.ConsumeMoved() {
		t.Error("1px press counted as drag")
	}

	e.HandleEvent(Down(geom.Pt(200, 200)))
	e.HandleEvent(Move(geom.Pt(202, 200)))
	e.HandleEvent(Up(geom.Pt(202, 200)))
	if !e.ConsumeMoved() {
		t.Error("2px press counted as click")
	}
	if e.ConsumeMoved() {
		t.Error("ConsumeMoved did not clear the flag")
	}
	if len(vp.captured) != 2 || len(vp.released) != 2 {
		t.Errorf("captured %v released %v, want two of each", vp.captured, vp.released)
	}
}

func TestDragPansByPointerDelta(t *testing.T) {
	e, _, content := newTestEngine(t)
	e.SetTransform(Patch{TranslateX: Value(10), TranslateY: Value(-5)})

	e.HandleEvent(Down(geom.Pt(300, 300)))
	e.HandleEvent(Move(geom.Pt(340, 250)))
	got := e.Transform()
	if got.TranslateX != 50 || got.TranslateY != -55 {
		t.Errorf("Translate (%v, %v), want (50, -55)", got.TranslateX, got.TranslateY)
	}
	if content.Current() != got {
		t.Errorf("content transform %+v, want %+v", content.Current(), got)
	}

	e.HandleEvent(Event{Kind: EventPointerLeave, Pos: geom.Pt(900, 900)})
	e.HandleEvent(Move(geom.Pt(500, 500)))
	if e.Transform() != got {
		t.Error("move after leave still panned")
	}
}

func TestSecondaryButtonDoesNotPan(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.HandleEvent(Event{Kind: EventPointerDown, Button: ButtonSecondary, Pos: geom.Pt(10, 10)})
	if e.HandleEvent(Move(geom.Pt(80, 80))) {
		t.Error("secondary button drag changed the transform")
	}
}

func TestCaptureFailureIsIgnored(t *testing.T) {
	e, vp, _ := newTestEngine(t)
	vp.fail = true
	e.HandleEvent(Down(geom.Pt(0, 0)))
	e.HandleEvent(Move(geom.Pt(30, 0)))
	e.HandleEvent(Up(geom.Pt(30, 0)))
	if got := e.Transform().TranslateX; got != 30 {
		t.Errorf("TranslateX %v, want 30", got)
	}
}

func TestResetAndSetTransform(t *testing.T) {
	e, _, _ := newTestEngine(t)
	var last Transform
	e.OnChange(func(tr Transform) { last = tr })

	e.SetTransform(Patch{Scale: Value(40)})
	if last.Scale != DefaultMaxScale {
		t.Errorf("Scale %v, want clamped %v", last.Scale, DefaultMaxScale)
	}
	e.Reset()
	if last != Identity() {
		t.Errorf("after Reset got %+v, want identity", last)
	}
}

func TestZoomByKeepsAnchor(t *testing.T) {
	e, _, _ := newTestEngine(t)
	anchor := geom.Pt(400, 300)
	before := e.Transform().ContentPoint(anchor)
	if !e.ZoomBy(2, anchor) {
		t.Fatal("ZoomBy did not change the transform")
	}
	after := e.Transform().ContentPoint(anchor)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("anchor moved from %v to %v", before, after)
	}
}

func TestNilEngine(t *testing.T) {
	if e := New(nil, &fakeContent{}); e != nil {
		t.Fatal("New without viewport returned an engine")
	}
	var e *Engine
	e.Reset()
	e.SetTransform(Patch{Scale: Value(3)})
	e.OnChange(func(Transform) {})
	e.Detach()
	if e.HandleEvent(Wheel(geom.Pt(1, 1), -1)) {
		t.Error("nil engine reported a change")
	}
	if e.ConsumeMoved() {
		t.Error("nil engine reported a drag")
	}
	if e.Transform() != Identity() {
		t.Errorf("nil engine transform %+v, want identity", e.Transform())
	}
}

func TestContentAttachesOnce(t *testing.T) {
	vp := &fakeViewport{rect: geom.Rect{Size: geom.Sz(10, 10)}}
	content := &fakeContent{}
	first, err := Attach(vp, content)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if _, err := Attach(vp, content); !errors.Is(err, ErrContentAttached) {
		t.Fatalf("second Attach err %v, want %v", err, ErrContentAttached)
	}
	first.Detach()
	if _, err := Attach(vp, content); err != nil {
		t.Errorf("Attach after Detach: %v", err)
	}
}
