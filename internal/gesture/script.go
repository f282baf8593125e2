package gesture

import (
	"encoding/json"
	"fmt"

	"assessment-cam/internal/asset"
	"assessment-cam/pkg/geometry"
)

// Target receives the events and toggles of a replayed script.
type Target interface {
	Handle(ev Event)
	Toggle(id asset.ID) error
}

// Step is a single action in a gesture script. Coordinates are display
// coordinates, exactly as an input adapter would report them.
//
//	{"action": "toggle", "sticker": "front/critical"}
//	{"action": "press", "x": 10, "y": 20}
//	{"action": "move", "x": 30, "y": 40}
//	{"action": "release", "x": 30, "y": 40}
//	{"action": "drag", "x": 10, "y": 20, "toX": 90, "toY": 20, "steps": 8}
//	{"action": "pinch", "x": 500, "y": 400, "from": 100, "to": 150, "steps": 5}
//
// A pinch puts two fingers on a horizontal line through (x, y), spreads them
// from one separation to the other, then lifts them. The left finger lands
// first and selects the sticker under it.
type Step struct {
	Action  string  `json:"action"`
	Sticker string  `json:"sticker,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	From    float64 `json:"from,omitempty"`
	To      float64 `json:"to,omitempty"`
	Steps   int     `json:"steps,omitempty"`
}

// Script is a parsed, validated gesture script.
type Script struct {
	Steps []Step `json:"steps"`
}

// LoadScript parses and validates a JSON gesture script.
func LoadScript(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse gesture script: step %d: %w", i, err)
		}
	}
	return &s, nil
}

func (st Step) validate() error {
	switch st.Action {
	case "press", "move", "release", "drag":
		return nil
	case "pinch":
		if st.From <= 0 || st.To <= 0 {
			return fmt.Errorf("pinch needs positive from/to distances")
		}
		return nil
	case "toggle":
		_, err := asset.ParseID(st.Sticker)
		return err
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
}

// Run replays every step against t. It stops at the first toggle error.
func (s *Script) Run(t Target) error {
	for i, st := range s.Steps {
		if err := st.run(t); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, st.Action, err)
		}
	}
	return nil
}

func (st Step) run(t Target) error {
	switch st.Action {
	case "toggle":
		id, err := asset.ParseID(st.Sticker)
		if err != nil {
			return err
		}
		return t.Toggle(id)
	case "press":
		t.Handle(Down(st.X, st.Y))
	case "move":
		t.Handle(Move(st.X, st.Y))
	case "release":
		t.Handle(Up(st.X, st.Y))
	case "drag":
		t.Handle(Down(st.X, st.Y))
		n := steps(st.Steps)
		for i := 1; i <= n; i++ {
			f := float64(i) / float64(n)
			t.Handle(Move(lerp(st.X, st.ToX, f), lerp(st.Y, st.ToY, f)))
		}
		t.Handle(Up(st.ToX, st.ToY))
	case "pinch":
		left := func(d float64) geometry.Point2D { return geometry.NewPoint2D(st.X-d/2, st.Y) }
		right := func(d float64) geometry.Point2D { return geometry.NewPoint2D(st.X+d/2, st.Y) }
		t.Handle(Touches(TouchStart, left(st.From)))
		t.Handle(Touches(TouchStart, left(st.From), right(st.From)))
		n := steps(st.Steps)
		var d float64
		for i := 1; i <= n; i++ {
			d = lerp(st.From, st.To, float64(i)/float64(n))
			t.Handle(Touches(TouchMove, left(d), right(d)))
		}
		t.Handle(Touches(TouchEnd, left(d)))
		t.Handle(Touches(TouchEnd))
	}
	return nil
}

func steps(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}
