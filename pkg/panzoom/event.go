package panzoom

import "geoparty/pkg/geom"

type EventKind int

const (
	EventWheel EventKind = iota
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventPointerCancel
	EventPointerLeave
)

func (k EventKind) String() string {
	switch k {
	case EventWheel:
		return "wheel"
	case EventPointerDown:
		return "pointerdown"
	case EventPointerMove:
		return "pointermove"
	case EventPointerUp:
		return "pointerup"
	case EventPointerCancel:
		return "pointercancel"
	case EventPointerLeave:
		return "pointerleave"
	default:
		return "unknown"
	}
}

type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Event is one input sample. Pos is in the same coordinates as the
// viewport's Bounds; DeltaY follows the browser convention where a
// positive value scrolls down.
type Event struct {
	Kind      EventKind
	PointerID int
	Button    Button
	Pos       geom.Point
	DeltaY    float64
}

func Wheel(pos geom.Point, deltaY float64) Event {
	return Event{Kind: EventWheel, Pos: pos, DeltaY: deltaY}
}

func Down(pos geom.Point) Event { return Event{Kind: EventPointerDown, Pos: pos} }
func Move(pos geom.Point) Event { return Event{Kind: EventPointerMove, Pos: pos} }
func Up(pos geom.Point) Event   { return Event{Kind: EventPointerUp, Pos: pos} }
