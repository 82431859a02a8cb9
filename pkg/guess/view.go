package guess

import (
	"fmt"

	"geoparty/pkg/geom"
)

// Option is one entry of the player picker.
type Option struct {
	Name     string
	Label    string
	Guessed  bool
	Selected bool
}

// View is everything the screen draws, derived from the controller.
type View struct {
	State     State
	Options   []Option
	Selected  string
	Guessed   string
	PinStatus string
	Pin       *geom.Point
	Toast     Toast
}

// View projects the current model. It does not change the controller.
func (c *Controller) View() View {
	v := View{
		State:     c.State(),
		Selected:  c.selected,
		PinStatus: "Pin: —",
		Toast:     c.toast,
	}
	guessed := 0
	for _, name := range c.players {
		_, ok := c.guesses[name]
		if ok {
			guessed++
		}
		label := name
		if ok {
			label += " ✅"
		}
		v.Options = append(v.Options, Option{Name: name, Label: label, Guessed: ok, Selected: name == c.selected})
	}
	v.Guessed = fmt.Sprintf("Guessed: %d / %d", guessed, len(c.players))
	if p, ok := c.guesses[c.selected]; ok && c.selected != "" {
		pin := p
		v.Pin = &pin
		v.PinStatus = "Pin: shown"
	}
	return v
}
