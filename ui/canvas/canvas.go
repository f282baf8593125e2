// Package canvas provides the photo canvas: it shows rendered frames and
// forwards mouse and touch input as gesture events.
package canvas

import (
	"image"
	"image/color"
	"math"
	"sync"

	"assessment-cam/internal/gesture"
	"assessment-cam/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

const (
	// wheelSpan is the synthetic finger distance used to turn a wheel step
	// into a pinch.
	wheelSpan = 100.0
	// wheelStep is the scale change per wheel unit.
	wheelStep = 0.002
)

var background = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}

// InputSink receives gesture events in display coordinates and the size at
// which the frame is shown.
type InputSink interface {
	Handle(ev gesture.Event)
	SetDisplaySize(size geometry.Size)
}

// PhotoCanvas displays the latest frame fitted to its area, letterboxed to
// keep the aspect ratio.
type PhotoCanvas struct {
	widget.BaseWidget

	sink   InputSink
	raster *fynecanvas.Raster
	bg     *fynecanvas.Rectangle

	mu       sync.Mutex
	frame    *image.RGBA
	offset   fyne.Position
	shown    fyne.Size
	last     geometry.Point2D
	touching bool
}

var (
	_ desktop.Mouseable = (*PhotoCanvas)(nil)
	_ fyne.Draggable    = (*PhotoCanvas)(nil)
	_ fyne.Scrollable   = (*PhotoCanvas)(nil)
	_ mobile.Touchable  = (*PhotoCanvas)(nil)
)

// NewPhotoCanvas creates a canvas that forwards input to sink.
func NewPhotoCanvas(sink InputSink) *PhotoCanvas {
	c := &PhotoCanvas{sink: sink}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScaleFastest
	c.bg = fynecanvas.NewRectangle(background)
	c.ExtendBaseWidget(c)
	return c
}

// SetFrame shows img. It is safe to call from any goroutine; img must not be
// modified afterwards.
func (c *PhotoCanvas) SetFrame(img *image.RGBA) {
	c.mu.Lock()
	resized := c.frame == nil || img == nil || c.frame.Bounds().Size() != img.Bounds().Size()
	c.frame = img
	c.mu.Unlock()

	if resized {
		c.Refresh()
		return
	}
	c.raster.Refresh()
}

// Frame returns the frame on display.
func (c *PhotoCanvas) Frame() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// ShownSize returns the size of the fitted frame in canvas units.
func (c *PhotoCanvas) ShownSize() fyne.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shown
}

func (c *PhotoCanvas) draw(w, h int) image.Image {
	c.mu.Lock()
	frame := c.frame
	c.mu.Unlock()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if frame == nil || w <= 0 || h <= 0 {
		return out
	}
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
	return out
}

// layoutFrame fits the frame into size and reports the shown size to the
// sink.
func (c *PhotoCanvas) layoutFrame(size fyne.Size) {
	c.mu.Lock()
	var fw, fh float32
	if c.frame != nil {
		b := c.frame.Bounds()
		fw, fh = float32(b.Dx()), float32(b.Dy())
	}
	c.offset, c.shown = fitFrame(fw, fh, size)
	offset, shown := c.offset, c.shown
	c.mu.Unlock()

	c.bg.Resize(size)
	c.raster.Move(offset)
	c.raster.Resize(shown)
	if shown.Width > 0 && shown.Height > 0 {
		c.sink.SetDisplaySize(geometry.NewSize(float64(shown.Width), float64(shown.Height)))
	}
}

// fitFrame returns the position and size of a fw x fh frame scaled to fit
// inside box, centered. Without a frame it fills the box.
func fitFrame(fw, fh float32, box fyne.Size) (fyne.Position, fyne.Size) {
	if fw <= 0 || fh <= 0 || box.Width <= 0 || box.Height <= 0 {
		return fyne.NewPos(0, 0), box
	}
	s := float32(math.Min(float64(box.Width/fw), float64(box.Height/fh)))
	shown := fyne.NewSize(fw*s, fh*s)
	return fyne.NewPos((box.Width-shown.Width)/2, (box.Height-shown.Height)/2), shown
}

// toDisplay converts a widget position to frame display coordinates.
func (c *PhotoCanvas) toDisplay(pos fyne.Position) geometry.Point2D {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := geometry.NewPoint2D(float64(pos.X-c.offset.X), float64(pos.Y-c.offset.Y))
	c.last = p
	return p
}

func (c *PhotoCanvas) lastPoint() geometry.Point2D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// MouseDown implements desktop.Mouseable.
func (c *PhotoCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p := c.toDisplay(ev.Position)
	c.sink.Handle(gesture.Down(p.X, p.Y))
}

// MouseUp implements desktop.Mouseable.
func (c *PhotoCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p := c.toDisplay(ev.Position)
	c.sink.Handle(gesture.Up(p.X, p.Y))
}

// Dragged implements fyne.Draggable. Drags continue a touch when a finger is
// down and a mouse gesture otherwise.
func (c *PhotoCanvas) Dragged(ev *fyne.DragEvent) {
	p := c.toDisplay(ev.Position)
	c.mu.Lock()
	touching := c.touching
	c.mu.Unlock()
	if touching {
		c.sink.Handle(gesture.Touches(gesture.TouchMove, p))
		return
	}
	c.sink.Handle(gesture.Move(p.X, p.Y))
}

// DragEnd implements fyne.Draggable. The release may land outside the widget,
// so the drag end also ends the gesture.
func (c *PhotoCanvas) DragEnd() {
	c.mu.Lock()
	touching := c.touching
	c.mu.Unlock()
	if touching {
		return
	}
	p := c.lastPoint()
	c.sink.Handle(gesture.Up(p.X, p.Y))
}

// Scrolled implements fyne.Scrollable. A wheel step under a sticker scales it
// as a two-finger pinch around the cursor would.
func (c *PhotoCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY == 0 {
		return
	}
	factor := 1 + float64(ev.Scrolled.DY)*wheelStep
	factor = math.Max(0.5, math.Min(2, factor))
	p := c.toDisplay(ev.Position)
	a := p
	b := geometry.NewPoint2D(p.X+wheelSpan, p.Y)
	c.sink.Handle(gesture.Touches(gesture.TouchStart, a, b))
	c.sink.Handle(gesture.Touches(gesture.TouchMove, a, geometry.NewPoint2D(p.X+wheelSpan*factor, p.Y)))
	c.sink.Handle(gesture.Touches(gesture.TouchEnd))
}

// TouchDown implements mobile.Touchable.
func (c *PhotoCanvas) TouchDown(ev *mobile.TouchEvent) {
	p := c.toDisplay(ev.Position)
	c.mu.Lock()
	c.touching = true
	c.mu.Unlock()
	c.sink.Handle(gesture.Touches(gesture.TouchStart, p))
}

// TouchUp implements mobile.Touchable.
func (c *PhotoCanvas) TouchUp(*mobile.TouchEvent) {
	c.mu.Lock()
	c.touching = false
	c.mu.Unlock()
	c.sink.Handle(gesture.Touches(gesture.TouchEnd))
}

// TouchCancel implements mobile.Touchable.
func (c *PhotoCanvas) TouchCancel(*mobile.TouchEvent) {
	c.mu.Lock()
	c.touching = false
	c.mu.Unlock()
	c.sink.Handle(gesture.Touches(gesture.TouchCancel))
}

// MinSize returns a small placeholder size; the canvas grows with its
// container.
func (c *PhotoCanvas) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// CreateRenderer implements fyne.Widget.
func (c *PhotoCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &photoCanvasRenderer{canvas: c}
}

type photoCanvasRenderer struct {
	canvas *PhotoCanvas
}

func (r *photoCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.layoutFrame(size)
}

func (r *photoCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.MinSize()
}

func (r *photoCanvasRenderer) Refresh() {
	r.canvas.layoutFrame(r.canvas.Size())
	r.canvas.raster.Refresh()
}

func (r *photoCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.bg, r.canvas.raster}
}

func (r *photoCanvasRenderer) Destroy() {}
