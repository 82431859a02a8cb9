package overlay

import (
	"strconv"
	"strings"
)

// Num formats an SVG coordinate with no trailing zeros.
func Num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Class is the marker's CSS class list.
func (m *Marker) Class() string {
	if m.Kind == KindAnswer {
		return "pin answer"
	}
	return "pin"
}

// SVGTransform is the compensation as an SVG transform attribute value, or ""
// when the marker is not compensated.
func (m *Marker) SVGTransform() string {
	k, ok := m.Compensation()
	if !ok {
		return ""
	}
	return "translate(" + Num(m.Anchor.X) + " " + Num(m.Anchor.Y) + ") scale(" + Num(1/k) +
		") translate(" + Num(-m.Anchor.X) + " " + Num(-m.Anchor.Y) + ")"
}

// TailPath is the tail triangle as SVG path data.
func (m *Marker) TailPath() string {
	t := m.Tail()
	return "M " + Num(t[0].X) + " " + Num(t[0].Y) +
		" L " + Num(t[1].X) + " " + Num(t[1].Y) +
		" L " + Num(t[2].X) + " " + Num(t[2].Y) + " Z"
}

// StarPath is the answer star as SVG path data, two decimals per coordinate.
func (m *Marker) StarPath() string {
	var d strings.Builder
	for i, p := range m.Star() {
		if i == 0 {
			d.WriteString("M ")
		} else {
			d.WriteString(" L ")
		}
		d.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
		d.WriteByte(' ')
		d.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
	}
	d.WriteString(" Z")
	return d.String()
}
