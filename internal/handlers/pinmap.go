package handlers

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"geoparty/internal/game"
	"geoparty/internal/viewmodel"
	"geoparty/pkg/geom"
	"geoparty/pkg/mapper"
	"geoparty/pkg/panzoom"
)

// fixedViewport is a map viewport of known size with its origin at 0,0.
type fixedViewport geom.Size

func (v fixedViewport) Bounds() geom.Rect { return geom.Rect{Size: geom.Size(v)} }

type pinMapOptions struct {
	PanZoom    bool
	ShowAnswer bool
	Guesses    map[string]geom.Point
	Form       *viewmodel.Form
}

func mapURL(file string) string {
	return "/uploads/" + game.MapsDir + "/" + url.PathEscape(file)
}

func sceneURL(file string) string {
	if file == "" {
		return ""
	}
	return "/uploads/" + game.ScenesDir + "/" + url.PathEscape(file)
}

// buildPinMap prepares the pin map for rd. With PanZoom the transform comes
// from query parameters prefixed by the map id, and each control links to
// the state one engine step away.
func buildPinMap(r *http.Request, id string, rd game.RoundSnapshot, displayWidth float64, opts pinMapOptions) viewmodel.PinMap {
	box := mapper.Fit(rd.MapSize, displayWidth)
	m := viewmodel.PinMap{
		ID:        id,
		ImageURL:  mapURL(rd.MapFile),
		Natural:   box.Natural,
		Display:   box.Rendered,
		Guesses:   opts.Guesses,
		PanZoom:   opts.PanZoom,
		Transform: panzoom.Identity(),
	}
	if m.Guesses == nil {
		m.Guesses = rd.Guesses
	}
	if opts.ShowAnswer {
		m.Answer = rd.Answer
	}
	if opts.Form != nil {
		m.GuessInput = true
		m.Form = *opts.Form
	}
	if !opts.PanZoom {
		return m
	}

	q := r.URL.Query()
	prefix := id + "."
	current := panzoom.Transform{
		Scale:      parseFloat(q.Get(prefix+"z"), 1),
		TranslateX: parseFloat(q.Get(prefix+"x"), 0),
		TranslateY: parseFloat(q.Get(prefix+"y"), 0),
	}
	engine := newMapEngine(box.Rendered, current)
	m.Transform = engine.Transform()
	limits := engine.Config()

	centre := geom.Pt(box.Rendered.W/2, box.Rendered.H/2)
	step := geom.Pt(box.Rendered.W/4, box.Rendered.H/4)
	ops := []struct {
		label, title string
		disabled     bool
		apply        func(e *panzoom.Engine)
	}{
		{"+", "Zoom in", m.Transform.Scale >= limits.MaxScale, func(e *panzoom.Engine) { e.HandleEvent(panzoom.Wheel(centre, -1)) }},
		{"−", "Zoom out", m.Transform.Scale <= limits.MinScale, func(e *panzoom.Engine) { e.HandleEvent(panzoom.Wheel(centre, 1)) }},
		{"←", "Pan left", false, func(e *panzoom.Engine) { drag(e, centre, geom.Pt(step.X, 0)) }},
		{"→", "Pan right", false, func(e *panzoom.Engine) { drag(e, centre, geom.Pt(-step.X, 0)) }},
		{"↑", "Pan up", false, func(e *panzoom.Engine) { drag(e, centre, geom.Pt(0, step.Y)) }},
		{"↓", "Pan down", false, func(e *panzoom.Engine) { drag(e, centre, geom.Pt(0, -step.Y)) }},
		{"Reset", "Reset view", false, func(e *panzoom.Engine) { e.Reset() }},
	}
	for _, op := range ops {
		link := viewmodel.Link{Label: op.label, Title: op.title, Disabled: op.disabled}
		if !op.disabled {
			next := newMapEngine(box.Rendered, m.Transform)
			op.apply(next)
			link.Href = transformHref(r.URL, prefix, next.Transform()) + "#pinmap-" + id
		}
		m.Controls = append(m.Controls, link)
	}
	return m
}

func newMapEngine(display geom.Size, t panzoom.Transform) *panzoom.Engine {
	e := panzoom.New(fixedViewport(display), &panzoom.Surface{})
	e.SetTransform(panzoom.Patch{
		Scale:      panzoom.Value(t.Scale),
		TranslateX: panzoom.Value(t.TranslateX),
		TranslateY: panzoom.Value(t.TranslateY),
	})
	return e
}

// drag replays a primary-button drag of d starting at from.
func drag(e *panzoom.Engine, from, d geom.Point) {
	e.HandleEvent(panzoom.Down(from))
	e.HandleEvent(panzoom.Move(from.Add(d)))
	e.HandleEvent(panzoom.Up(from.Add(d)))
}

func transformHref(u *url.URL, prefix string, t panzoom.Transform) string {
	q := u.Query()
	q.Set(prefix+"z", strconv.FormatFloat(t.Scale, 'f', 4, 64))
	q.Set(prefix+"x", strconv.FormatFloat(t.TranslateX, 'f', 1, 64))
	q.Set(prefix+"y", strconv.FormatFloat(t.TranslateY, 'f', 1, 64))
	return u.Path + "?" + q.Encode()
}

func parseFloat(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return fallback
	}
	return parsed
}
