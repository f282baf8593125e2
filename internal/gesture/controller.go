package gesture

import (
	"math"

	"assessment-cam/internal/overlay"
	"assessment-cam/pkg/geometry"

	"go.uber.org/zap"
)

// Mode is the state of the current gesture.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeResizing
	ModePinchScaling
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeDragging:
		return "Dragging"
	case ModeResizing:
		return "Resizing"
	case ModePinchScaling:
		return "PinchScaling"
	default:
		return "Unknown"
	}
}

// minPinchDistance is the smallest finger separation used as a pinch
// reference; closer touches wait for the fingers to spread first.
const minPinchDistance = 1e-6

// Invalidator receives a request to redraw the surface. Implementations are
// expected to coalesce requests.
type Invalidator interface {
	RequestRender()
}

// InvalidatorFunc adapts a function to the Invalidator interface.
type InvalidatorFunc func()

// RequestRender calls f().
func (f InvalidatorFunc) RequestRender() { f() }

// Session is a snapshot of the gesture in progress.
type Session struct {
	Mode            Mode
	Active          *overlay.Instance
	Anchor          geometry.Point2D
	InitialSticker  *overlay.Instance // copy taken when a resize starts
	InitialDistance float64
	InitialScale    float64
}

// Controller runs the gesture state machine for one overlay model. It is not
// safe for concurrent use; callers serialize input events.
type Controller struct {
	model      *overlay.Model
	viewport   Viewport
	invalidate Invalidator
	log        *zap.Logger

	mode            Mode
	active          *overlay.Instance
	anchor          geometry.Point2D
	initialSticker  *overlay.Instance
	initialDistance float64
	initialScale    float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithInvalidator sets the render request sink.
func WithInvalidator(inv Invalidator) Option {
	return func(c *Controller) { c.invalidate = inv }
}

// WithLogger sets the logger for state transitions.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithViewport sets the initial display-to-surface mapping.
func WithViewport(v Viewport) Option {
	return func(c *Controller) { c.viewport = v }
}

// NewController creates a controller in the Idle state.
func NewController(model *overlay.Model, opts ...Option) *Controller {
	c := &Controller{
		model:      model,
		invalidate: InvalidatorFunc(func() {}),
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetViewport updates the display-to-surface mapping.
func (c *Controller) SetViewport(v Viewport) {
	c.viewport = v
}

// Viewport returns the current mapping.
func (c *Controller) Viewport() Viewport {
	return c.viewport
}

// Mode returns the current state.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Active returns the instance under the current gesture, or nil.
func (c *Controller) Active() *overlay.Instance {
	return c.active
}

// Session returns a snapshot of the gesture state.
func (c *Controller) Session() Session {
	return Session{
		Mode:            c.mode,
		Active:          c.active,
		Anchor:          c.anchor,
		InitialSticker:  c.initialSticker,
		InitialDistance: c.initialDistance,
		InitialScale:    c.initialScale,
	}
}

// Reset abandons any gesture without touching the model.
func (c *Controller) Reset() {
	c.clear()
}

// Handle applies one input event.
func (c *Controller) Handle(ev Event) {
	if c.active != nil && !c.model.Contains(c.active) {
		// The sticker was toggled off mid-gesture.
		c.clear()
	}
	switch e := ev.(type) {
	case PointerEvent:
		c.handlePointer(e)
	case TouchEvent:
		c.handleTouch(e)
	}
}

func (c *Controller) handlePointer(e PointerEvent) {
	p := c.viewport.ToSurface(e.Pos)
	switch e.Kind {
	case PointerDown:
		c.begin(p)
	case PointerMove:
		if c.active == nil {
			return
		}
		c.moveTo(p)
		c.invalidate.RequestRender()
	case PointerUp:
		c.release()
	}
}

func (c *Controller) handleTouch(e TouchEvent) {
	pts := make([]geometry.Point2D, len(e.Touches))
	for i, t := range e.Touches {
		pts[i] = c.viewport.ToSurface(t)
	}
	n := len(pts)

	if e.Kind == TouchCancel || n > 2 {
		c.release()
		return
	}

	switch e.Kind {
	case TouchStart:
		switch n {
		case 1:
			c.begin(pts[0])
		case 2:
			if c.active == nil {
				c.begin(pts[0])
			}
			if c.active != nil {
				c.startPinch(pts[0], pts[1])
			}
		}
	case TouchMove:
		if c.active == nil {
			return
		}
		switch n {
		case 1:
			if c.mode == ModePinchScaling {
				c.toDragging(pts[0])
			} else {
				c.moveTo(pts[0])
			}
		case 2:
			if c.mode != ModePinchScaling {
				c.startPinch(pts[0], pts[1])
			} else {
				c.pinchTo(pts[0], pts[1])
			}
		}
		c.invalidate.RequestRender()
	case TouchEnd:
		switch n {
		case 0:
			c.release()
		case 1:
			if c.mode == ModePinchScaling {
				c.toDragging(pts[0])
				c.invalidate.RequestRender()
			}
		}
	}
}

// begin starts a single-point gesture at p.
func (c *Controller) begin(p geometry.Point2D) {
	hadActive := c.active != nil
	hit := c.model.HitTest(p)
	switch hit.Region {
	case overlay.RegionHandle:
		c.clear()
		c.active = hit.Instance
		c.mode = ModeResizing
		c.initialSticker = hit.Instance.Clone()
		c.anchor = p
	case overlay.RegionBody:
		c.clear()
		c.model.BringToFront(hit.Instance)
		c.active = hit.Instance
		c.mode = ModeDragging
		c.anchor = p.Sub(hit.Instance.Origin())
	default:
		c.clear()
		if hadActive {
			c.invalidate.RequestRender()
		}
		return
	}
	c.log.Debug("gesture started",
		zap.Stringer("mode", c.mode),
		zap.String("sticker", c.active.ID),
		zap.Stringer("type", c.active.Type))
	c.invalidate.RequestRender()
}

// moveTo applies a single-point move to the active instance.
func (c *Controller) moveTo(p geometry.Point2D) {
	minSize := c.model.Config().MinSize
	switch c.mode {
	case ModeDragging:
		c.active.MoveTo(p.Sub(c.anchor))
	case ModeResizing:
		c.active.SetWidth(math.Abs(p.X-c.active.X), minSize)
	}
}

func (c *Controller) startPinch(a, b geometry.Point2D) {
	c.mode = ModePinchScaling
	c.initialDistance = a.Distance(b)
	c.initialScale = 1
	if iw := c.active.IntrinsicWidth(); iw > 0 {
		c.initialScale = c.active.Width / iw
	}
	c.log.Debug("pinch started",
		zap.String("sticker", c.active.ID),
		zap.Float64("distance", c.initialDistance),
		zap.Float64("scale", c.initialScale))
}

// pinchTo scales the active instance isotropically around its center.
func (c *Controller) pinchTo(a, b geometry.Point2D) {
	d := a.Distance(b)
	if c.initialDistance < minPinchDistance {
		if d >= minPinchDistance {
			c.startPinch(a, b)
		}
		return
	}
	scale := d / c.initialDistance

	oldW, oldH := c.active.Width, c.active.Height
	c.active.SetWidth(c.active.IntrinsicWidth()*c.initialScale*scale, c.model.Config().MinSize)
	c.active.X -= (c.active.Width - oldW) / 2
	c.active.Y -= (c.active.Height - oldH) / 2
}

// toDragging continues a pinch as a drag with the remaining finger, keeping
// the instance where the pinch left it.
func (c *Controller) toDragging(p geometry.Point2D) {
	c.mode = ModeDragging
	c.anchor = p.Sub(c.active.Origin())
	c.initialDistance = 0
	c.initialScale = 0
}

func (c *Controller) release() {
	hadActive := c.active != nil
	if hadActive {
		c.log.Debug("gesture ended",
			zap.Stringer("mode", c.mode),
			zap.String("sticker", c.active.ID))
	}
	c.clear()
	if hadActive {
		c.invalidate.RequestRender()
	}
}

func (c *Controller) clear() {
	c.mode = ModeIdle
	c.active = nil
	c.anchor = geometry.Point2D{}
	c.initialSticker = nil
	c.initialDistance = 0
	c.initialScale = 0
}
