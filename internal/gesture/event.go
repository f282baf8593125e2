// Package gesture turns pointer and touch input into sticker mutations.
package gesture

import "assessment-cam/pkg/geometry"

// Event is a normalized input event. It is either a PointerEvent or a
// TouchEvent; adapters for mouse and touch devices produce these.
type Event interface {
	isEvent()
}

// PointerKind identifies a single-pointer event.
type PointerKind uint8

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is a mouse-like event in display coordinates.
type PointerEvent struct {
	Kind PointerKind
	Pos  geometry.Point2D
}

func (PointerEvent) isEvent() {}

// TouchKind identifies a multi-touch event.
type TouchKind uint8

const (
	TouchStart TouchKind = iota
	TouchMove
	TouchEnd
	TouchCancel
)

func (k TouchKind) String() string {
	switch k {
	case TouchStart:
		return "start"
	case TouchMove:
		return "move"
	case TouchEnd:
		return "end"
	case TouchCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// TouchEvent carries the touches still in contact after the event, in
// display coordinates. A TouchEnd for the last finger has no touches.
type TouchEvent struct {
	Kind    TouchKind
	Touches []geometry.Point2D
}

func (TouchEvent) isEvent() {}

// Down returns a pointer-down event at (x, y).
func Down(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerDown, Pos: geometry.NewPoint2D(x, y)}
}

// Move returns a pointer-move event at (x, y).
func Move(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerMove, Pos: geometry.NewPoint2D(x, y)}
}

// Up returns a pointer-up event at (x, y).
func Up(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerUp, Pos: geometry.NewPoint2D(x, y)}
}

// Touches builds a touch event from the given points.
func Touches(kind TouchKind, pts ...geometry.Point2D) TouchEvent {
	return TouchEvent{Kind: kind, Touches: pts}
}
