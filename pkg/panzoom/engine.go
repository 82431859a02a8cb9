package panzoom

import (
	"errors"
	"math"

	"geoparty/pkg/geom"
)

// ErrContentAttached is returned by Attach when the content already has an engine.
var ErrContentAttached = errors.New("panzoom: content already attached to an engine")

// Viewport is the fixed box the content is shown in. Bounds is read on every
// event so a resized viewport needs no notification.
type Viewport interface {
	Bounds() geom.Rect
}

// PointerCapturer is implemented by viewports that can route a pointer's
// events to themselves for the length of a drag.
type PointerCapturer interface {
	CapturePointer(id int) error
	ReleasePointer(id int) error
}

// Content receives the transform after every change.
type Content interface {
	ApplyTransform(Transform)
}

// Surface is an embeddable Content that remembers the last applied
// transform and refuses a second engine.
type Surface struct {
	owner *Engine
	t     Transform
}

// ApplyTransform implements Content.
func (s *Surface) ApplyTransform(t Transform) { s.t = t }

// Current returns the last transform applied to s.
func (s *Surface) Current() Transform {
	if s.t.Scale == 0 {
		return Identity()
	}
	return s.t
}

func (s *Surface) claim(e *Engine) bool {
	if s.owner != nil && s.owner != e {
		return false
	}
	s.owner = e
	return true
}

func (s *Surface) release(e *Engine) {
	if s.owner == e {
		s.owner = nil
	}
}

type claimer interface {
	claim(*Engine) bool
	release(*Engine)
}

// Config holds the zoom limits.
type Config struct {
	MinScale float64
	MaxScale float64
	ZoomStep float64
}

type Option func(*Config)

func WithMinScale(v float64) Option { return func(c *Config) { c.MinScale = v } }
func WithMaxScale(v float64) Option { return func(c *Config) { c.MaxScale = v } }
func WithZoomStep(v float64) Option { return func(c *Config) { c.ZoomStep = v } }

// Engine owns the transform of one content layer. A nil *Engine is valid and
// ignores every call.
type Engine struct {
	viewport  Viewport
	content   Content
	cfg       Config
	t         Transform
	gesture   Gesture
	pointerID int
	startT    geom.Point
	moved     bool
	listeners []func(Transform)
}

// New attaches an engine to the pair and returns nil when either side is
// missing or the content is already owned.
func New(viewport Viewport, content Content, opts ...Option) *Engine {
	e, err := Attach(viewport, content, opts...)
	if err != nil {
		return nil
	}
	return e
}

// Attach is New with the failure reported.
func Attach(viewport Viewport, content Content, opts ...Option) (*Engine, error) {
	if viewport == nil || content == nil {
		return nil, errors.New("panzoom: viewport and content are required")
	}
	cfg := Config{MinScale: DefaultMinScale, MaxScale: DefaultMaxScale, ZoomStep: DefaultZoomStep}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxScale < cfg.MinScale {
		cfg.MaxScale = cfg.MinScale
	}
	e := &Engine{viewport: viewport, content: content, cfg: cfg, t: Identity()}
	if c, ok := content.(claimer); ok && !c.claim(e) {
		return nil, ErrContentAttached
	}
	e.t.Scale = e.clampScale(1)
	content.ApplyTransform(e.t)
	return e, nil
}

// Detach releases the content so another engine may attach to it.
func (e *Engine) Detach() {
	if e == nil {
		return
	}
	if c, ok := e.content.(claimer); ok {
		c.release(e)
	}
	e.listeners = nil
}

// Config returns the effective limits.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{MinScale: DefaultMinScale, MaxScale: DefaultMaxScale, ZoomStep: DefaultZoomStep}
	}
	return e.cfg
}

// Transform returns a copy of the current transform.
func (e *Engine) Transform() Transform {
	if e == nil {
		return Identity()
	}
	return e.t
}

// OnChange registers fn to run after every mutation.
func (e *Engine) OnChange(fn func(Transform)) {
	if e == nil || fn == nil {
		return
	}
	e.listeners = append(e.listeners, fn)
}

// Reset returns to scale 1 with no translation.
func (e *Engine) Reset() {
	if e == nil {
		return
	}
	e.t = Transform{Scale: e.clampScale(1)}
	e.apply()
}

// SetTransform overwrites the fields present in p. Scale is clamped.
func (e *Engine) SetTransform(p Patch) {
	if e == nil {
		return
	}
	if p.Scale != nil {
		e.t.Scale = e.clampScale(*p.Scale)
	}
	if p.TranslateX != nil {
		e.t.TranslateX = *p.TranslateX
	}
	if p.TranslateY != nil {
		e.t.TranslateY = *p.TranslateY
	}
	e.apply()
}

// ConsumeMoved reports whether a drag passed the threshold since the last
// call, and clears the flag.
func (e *Engine) ConsumeMoved() bool {
	if e == nil {
		return false
	}
	moved := e.moved
	e.moved = false
	return moved
}

// Dragging reports whether a pan is in progress.
func (e *Engine) Dragging() bool {
	return e != nil && e.gesture.Active()
}

// ZoomBy multiplies the scale by factor keeping the viewport-local anchor
// fixed. It reports whether the transform changed.
func (e *Engine) ZoomBy(factor float64, anchor geom.Point) bool {
	if e == nil || factor <= 0 {
		return false
	}
	return e.zoomTo(e.t.Scale*factor, anchor)
}

// HandleEvent dispatches one input event and reports whether it changed the
// transform.
func (e *Engine) HandleEvent(ev Event) bool {
	if e == nil {
		return false
	}
	switch ev.Kind {
	case EventWheel:
		return e.wheel(ev)
	case EventPointerDown:
		e.pointerDown(ev)
	case EventPointerMove:
		return e.pointerMove(ev)
	case EventPointerUp, EventPointerCancel, EventPointerLeave:
		e.pointerUp(ev)
	}
	return false
}

func (e *Engine) wheel(ev Event) bool {
	if ev.DeltaY == 0 {
		return false
	}
	dir := 1.0
	if ev.DeltaY > 0 {
		dir = -1
	}
	anchor := e.viewport.Bounds().Local(ev.Pos)
	return e.zoomTo(e.t.Scale*(1+e.cfg.ZoomStep*dir), anchor)
}

func (e *Engine) zoomTo(scale float64, anchor geom.Point) bool {
	next := e.clampScale(scale)
	if next == e.t.Scale {
		return false
	}
	c := e.t.ContentPoint(anchor)
	e.t = Transform{
		Scale:      next,
		TranslateX: anchor.X - c.X*next,
		TranslateY: anchor.Y - c.Y*next,
	}
	e.apply()
	return true
}

func (e *Engine) pointerDown(ev Event) {
	if ev.Button != ButtonPrimary {
		return
	}
	e.gesture.Down(ev.Pos)
	e.moved = false
	e.pointerID = ev.PointerID
	e.startT = e.t.Translate()
	if pc, ok := e.viewport.(PointerCapturer); ok {
		_ = pc.CapturePointer(ev.PointerID)
	}
}

func (e *Engine) pointerMove(ev Event) bool {
	if !e.gesture.Active() || ev.PointerID != e.pointerID {
		return false
	}
	d := e.gesture.Move(ev.Pos)
	if e.gesture.Moved() {
		e.moved = true
	}
	e.t.TranslateX = e.startT.X + d.X
	e.t.TranslateY = e.startT.Y + d.Y
	e.apply()
	return true
}

func (e *Engine) pointerUp(ev Event) {
	if !e.gesture.Active() {
		return
	}
	if ev.Kind == EventPointerUp && ev.PointerID == e.pointerID {
		e.gesture.Up(ev.Pos)
	} else {
		e.gesture.Up(e.gesture.Start())
	}
	if e.gesture.Moved() {
		e.moved = true
	}
	if pc, ok := e.viewport.(PointerCapturer); ok {
		_ = pc.ReleasePointer(e.pointerID)
	}
}

func (e *Engine) clampScale(v float64) float64 {
	if math.IsNaN(v) {
		return e.t.Scale
	}
	return geom.Clamp(v, e.cfg.MinScale, e.cfg.MaxScale)
}

func (e *Engine) apply() {
	e.content.ApplyTransform(e.t)
	for _, fn := range e.listeners {
		fn(e.t)
	}
}
