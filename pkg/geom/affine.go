package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Affine is a 2D affine transform laid out like an SVG matrix(a b c d e f):
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{A: 1, D: 1, E: tx, F: ty}
}

// Scale returns a uniform scale by k around the origin.
func Scale(k float64) Affine {
	return Affine{A: k, D: k}
}

// ScaleAbout returns translate(p) · scale(k) · translate(-p).
func ScaleAbout(p Point, k float64) Affine {
	return Translate(p.X, p.Y).Mul(Scale(k)).Mul(Translate(-p.X, -p.Y))
}

// Mul returns m·n, i.e. n is applied first.
func (m Affine) Mul(n Affine) Affine {
	var out mat.Dense
	out.Mul(m.dense(), n.dense())
	return fromDense(&out)
}

// Invert returns the inverse transform, or false if m is singular.
func (m Affine) Invert() (Affine, bool) {
	if m.A*m.D-m.B*m.C == 0 {
		return Affine{}, false
	}
	var inv mat.Dense
	if err := inv.Inverse(m.dense()); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) {
			return Affine{}, false
		}
	}
	return fromDense(&inv), true
}

// Apply maps p through m.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// IsIdentity reports whether m leaves every point unchanged.
func (m Affine) IsIdentity() bool {
	return m == Identity()
}

// String formats m as an SVG transform attribute value.
func (m Affine) String() string {
	return fmt.Sprintf("matrix(%g %g %g %g %g %g)", m.A, m.B, m.C, m.D, m.E, m.F)
}

func (m Affine) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		m.A, m.C, m.E,
		m.B, m.D, m.F,
		0, 0, 1,
	})
}

func fromDense(d *mat.Dense) Affine {
	return Affine{
		A: d.At(0, 0), C: d.At(0, 1), E: d.At(0, 2),
		B: d.At(1, 0), D: d.At(1, 1), F: d.At(1, 2),
	}
}
