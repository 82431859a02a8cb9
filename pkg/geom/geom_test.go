package geom

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5,0,3) = %v, want 3", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp(-1,0,3) = %v, want 0", got)
	}
	if got := Clamp(2, 10, 4); got != 10 {
		t.Errorf("Clamp with inverted bounds = %v, want lo", got)
	}
}

func TestPlayerColorDeterministic(t *testing.T) {
	if PlayerColor("P1") != PlayerColor("P1") {
		t.Fatal("PlayerColor not stable within a run")
	}
	if got := PlayerColor("Alice"); got != "hsl(143 78% 45%)" {
		t.Errorf("PlayerColor(Alice) = %q, want hsl(143 78%% 45%%)", got)
	}
	if got := PlayerHue("Bob"); got != 220 {
		t.Errorf("PlayerHue(Bob) = %d, want 220", got)
	}
	if PlayerColor("Alice") == PlayerColor("Bob") {
		t.Error("Alice and Bob share a colour")
	}
}

func TestPlayerColorEmptyName(t *testing.T) {
	if PlayerColor("") != PlayerColor("Player") {
		t.Error("empty name should fall back to Player")
	}
}

func TestHSLPrimaries(t *testing.T) {
	red := HSL(0, 1, 0.5)
	if red.R != 255 || red.G != 0 || red.B != 0 {
		t.Errorf("HSL(0,1,.5) = %v, want pure red", red)
	}
	blue := HSL(240, 1, 0.5)
	if blue.B != 255 || blue.R != 0 || blue.G != 0 {
		t.Errorf("HSL(240,1,.5) = %v, want pure blue", blue)
	}
}

func TestScaleAboutKeepsAnchor(t *testing.T) {
	anchor := Pt(40, 25)
	m := ScaleAbout(anchor, 0.25)
	got := m.Apply(anchor)
	if math.Abs(got.X-anchor.X) > 1e-9 || math.Abs(got.Y-anchor.Y) > 1e-9 {
		t.Errorf("anchor moved to %v", got)
	}
	q := m.Apply(Pt(44, 25))
	if math.Abs(q.X-41) > 1e-9 {
		t.Errorf("offset point mapped to %v, want x=41", q)
	}
}

func TestAffineInvert(t *testing.T) {
	m := Translate(10, -4).Mul(Scale(2))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert reported singular")
	}
	p := Pt(3, 7)
	back := inv.Apply(m.Apply(p))
	if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
		t.Errorf("round trip got %v, want %v", back, p)
	}
	if _, ok := Scale(0).Invert(); ok {
		t.Error("zero scale should not invert")
	}
}
