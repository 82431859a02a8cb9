package guessui

import (
	"testing"

	"geoparty/pkg/geom"
	"geoparty/pkg/panzoom"
)

func kinds(evs []panzoom.Event) []panzoom.EventKind {
	out := make([]panzoom.EventKind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

func TestPointerTransitions(t *testing.T) {
	p := &pointer{}
	steps := []struct {
		f    frame
		want []panzoom.EventKind
	}{
		{frame{Pos: geom.Pt(10, 10)}, []panzoom.EventKind{panzoom.EventPointerMove}},
		{frame{Pos: geom.Pt(10, 10)}, nil},
		{frame{Pos: geom.Pt(10, 10), Pressed: true}, []panzoom.EventKind{panzoom.EventPointerDown}},
		{frame{Pos: geom.Pt(10, 10), Pressed: true}, nil},
		{frame{Pos: geom.Pt(14, 10), Pressed: true}, []panzoom.EventKind{panzoom.EventPointerMove}},
		{frame{Pos: geom.Pt(14, 10)}, []panzoom.EventKind{panzoom.EventPointerUp}},
	}
	for i, st := range steps {
		got := kinds(p.events(st.f))
		if len(got) != len(st.want) {
			t.Fatalf("step %d: got %v, want %v", i, got, st.want)
		}
		for j := range got {
			if got[j] != st.want[j] {
				t.Errorf("step %d: got %v, want %v", i, got, st.want)
			}
		}
	}
}

func TestPointerWheelUsesBrowserSign(t *testing.T) {
	p := &pointer{}
	evs := p.events(frame{Pos: geom.Pt(5, 5), WheelY: 1})
	if len(evs) == 0 || evs[0].Kind != panzoom.EventWheel {
		t.Fatalf("got %v, want a wheel event first", kinds(evs))
	}
	if evs[0].DeltaY != -wheelNotch {
		t.Errorf("DeltaY = %v, want %v", evs[0].DeltaY, -wheelNotch)
	}
}

func TestLineEditor(t *testing.T) {
	var e lineEditor
	e.Insert([]rune("ignored"))
	if e.String() != "" {
		t.Fatalf("inactive editor took input: %q", e.String())
	}
	e.Open()
	e.Insert([]rune("Bo\tb"))
	if got := e.String(); got != "Bob" {
		t.Errorf("String() = %q, want Bob", got)
	}
	e.Backspace()
	if got := e.Submit(); got != "Bo" {
		t.Errorf("Submit() = %q, want Bo", got)
	}
	if e.Active() || e.String() != "" {
		t.Errorf("editor not reset after Submit")
	}

	e.Open()
	long := make([]rune, maxNameRunes+10)
	for i := range long {
		long[i] = 'x'
	}
	e.Insert(long)
	if n := len([]rune(e.String())); n != maxNameRunes {
		t.Errorf("len = %d, want %d", n, maxNameRunes)
	}
}
